package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// Ledger es el kardex: dueño de las filas de stock por (bodega, producto,
// clase) y del registro append-only de movimientos. Toda mutación pasa por
// Apply/ApplyInTx: relee la cantidad con bloqueo de fila, rechaza si quedaría
// negativa y escribe exactamente un StockLogEntry por mutación exitosa.
type Ledger struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository
	logRepo   repository.StockLogRepository
}

// NewLedger construye el kardex.
func NewLedger(txRunner TxRunner, stockRepo repository.StockRepository, logRepo repository.StockLogRepository) *Ledger {
	return &Ledger{txRunner: txRunner, stockRepo: stockRepo, logRepo: logRepo}
}

// ApplyInput entrada para una mutación del kardex. Delta lleva el signo del
// movimiento (el kardex no conoce tipos de solicitud; ver
// entity.DirectionForRequest para la tabla de signos).
type ApplyInput struct {
	WarehouseID string
	ProductID   string
	StockKind   string
	Delta       int64
	Movement    string
	RequestKind string // vacío para reposición directa
	UserID      string
}

// ApplyResult resultado de una mutación exitosa.
type ApplyResult struct {
	NewQuantity int64
	LogEntryID  string
}

// GetQuantity devuelve la cantidad actual; 0 si la fila no existe.
func (l *Ledger) GetQuantity(ctx context.Context, warehouseID, productID, stockKind string) (int64, error) {
	if warehouseID == "" || productID == "" || !entity.ValidStockKind(stockKind) {
		return 0, domain.ErrInvalidInput
	}
	s, err := l.stockRepo.Get(warehouseID, productID, stockKind)
	if err != nil {
		return 0, err
	}
	return s.Quantity, nil
}

// Apply ejecuta una mutación en su propia transacción: bloqueo de fila,
// verificación de no-negatividad, upsert y registro. La fila se crea en
// cero al tomar el bloqueo la primera vez.
func (l *Ledger) Apply(ctx context.Context, in ApplyInput) (*ApplyResult, error) {
	if err := validateApply(in); err != nil {
		return nil, err
	}
	var result *ApplyResult
	err := l.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		logRepo repository.StockLogRepository,
		_ repository.TransferRequestRepository,
	) error {
		r, err := l.ApplyInTx(stockRepo, logRepo, in, time.Now())
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyInTx ejecuta la mutación con repositorios del caller (misma transacción
// del caller). Lo usa la confirmación de solicitudes para que el CAS de la
// solicitud y la mutación de stock compartan transacción.
func (l *Ledger) ApplyInTx(
	stockRepo repository.StockRepository,
	logRepo repository.StockLogRepository,
	in ApplyInput,
	now time.Time,
) (*ApplyResult, error) {
	if err := validateApply(in); err != nil {
		return nil, err
	}
	// Bloquea la fila (SELECT FOR UPDATE): dos confirmaciones concurrentes
	// sobre la misma fila de stock se serializan aquí.
	current, err := stockRepo.GetForUpdate(in.WarehouseID, in.ProductID, in.StockKind)
	if err != nil {
		return nil, err
	}
	newQuantity := current.Quantity + in.Delta
	if newQuantity < 0 {
		return nil, domain.ErrInsufficientStock
	}
	current.Quantity = newQuantity
	current.UpdatedAt = now
	if err := stockRepo.Upsert(current); err != nil {
		return nil, err
	}
	entry := &entity.StockLogEntry{
		ID:          uuid.New().String(),
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		StockKind:   in.StockKind,
		Quantity:    in.Delta,
		Movement:    in.Movement,
		RequestKind: in.RequestKind,
		CreatedAt:   now,
		CreatedBy:   in.UserID,
	}
	if err := logRepo.Create(entry); err != nil {
		return nil, err
	}
	return &ApplyResult{NewQuantity: newQuantity, LogEntryID: entry.ID}, nil
}

// RegisterStockIn registra una reposición directa (entrada sin solicitud de
// traslado): movimiento stock-in con delta positivo.
func (l *Ledger) RegisterStockIn(ctx context.Context, warehouseID, productID, stockKind string, quantity int64, userID string) (*ApplyResult, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return l.Apply(ctx, ApplyInput{
		WarehouseID: warehouseID,
		ProductID:   productID,
		StockKind:   stockKind,
		Delta:       quantity,
		Movement:    entity.MovementStockIn,
		UserID:      userID,
	})
}

// ListStock lista las filas de stock de una bodega.
func (l *Ledger) ListStock(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Stock, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return l.stockRepo.ListByWarehouse(warehouseID, limit, offset)
}

// ListLog lista el kardex de una bodega; con productID filtra por producto.
func (l *Ledger) ListLog(ctx context.Context, warehouseID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLogEntry, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if productID != "" {
		return l.logRepo.ListByStock(warehouseID, productID, from, to, limit, offset)
	}
	return l.logRepo.ListByWarehouse(warehouseID, from, to, limit, offset)
}

func validateApply(in ApplyInput) error {
	if in.WarehouseID == "" || in.ProductID == "" || !entity.ValidStockKind(in.StockKind) {
		return domain.ErrInvalidInput
	}
	if in.Delta == 0 {
		return domain.ErrInvalidInput
	}
	switch in.Movement {
	case entity.MovementStockIn, entity.MovementStockOut, entity.MovementTransfer,
		entity.MovementReturnDefect, entity.MovementReturnNormal:
		return nil
	}
	return domain.ErrInvalidInput
}
