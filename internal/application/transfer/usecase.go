// Package transfer implementa el ciclo de vida de las solicitudes de traslado:
// pending → approved | rejected y, si approved, confirmed. Confirmar es la
// única operación que muta stock: CAS sobre la solicitud + mutación del kardex
// en una sola transacción.
package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegas-api/internal/application/stock"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	domaccess "github.com/jhoicas/Bodegas-api/internal/domain/access"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// AccessResolver es el contrato mínimo que necesita el ciclo de solicitudes
// para autorizar operaciones por bodega. Lo implementa *access.Resolver.
type AccessResolver interface {
	Authorize(ctx context.Context, userID, warehouseID string, op domaccess.Operation) error
}

// UseCase orquesta las solicitudes de traslado.
type UseCase struct {
	txRunner      stock.TxRunner
	ledger        *stock.Ledger
	resolver      AccessResolver
	requestRepo   repository.TransferRequestRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	vehicleRepo   repository.VehicleRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner stock.TxRunner,
	ledger *stock.Ledger,
	resolver AccessResolver,
	requestRepo repository.TransferRequestRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	vehicleRepo repository.VehicleRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		ledger:        ledger,
		resolver:      resolver,
		requestRepo:   requestRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		vehicleRepo:   vehicleRepo,
	}
}

// CreateInput entrada para crear una solicitud de traslado.
type CreateInput struct {
	WarehouseID string
	ProductID   string
	VehicleID   string // opcional
	RequestKind string
	StockKind   string
	Quantity    int64
}

// Create crea una solicitud en estado pending. Requiere la capacidad Create
// sobre la bodega. Para tipos que descuentan hace una verificación temprana
// de stock (consultiva: la autoritativa se repite dentro de la transacción
// de Confirm, que cierra la ventana de carrera).
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, in CreateInput) (*entity.TransferRequest, error) {
	if !entity.ValidRequestKind(in.RequestKind) || !entity.ValidStockKind(in.StockKind) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 || in.WarehouseID == "" || in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.VehicleID != "" {
		vehicle, err := uc.vehicleRepo.GetByID(in.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle == nil || vehicle.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
	}
	if err := uc.resolver.Authorize(ctx, userID, in.WarehouseID, domaccess.OpCreate); err != nil {
		return nil, err
	}

	if direction, _ := entity.DirectionForRequest(in.RequestKind); direction < 0 {
		current, err := uc.ledger.GetQuantity(ctx, in.WarehouseID, in.ProductID, in.StockKind)
		if err != nil {
			return nil, err
		}
		if current < in.Quantity {
			return nil, domain.ErrInsufficientStock
		}
	}

	request := &entity.TransferRequest{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		VehicleID:   in.VehicleID,
		RequestKind: in.RequestKind,
		StockKind:   in.StockKind,
		Quantity:    in.Quantity,
		Status:      entity.StatusPending,
		RequestedBy: userID,
		RequestedAt: time.Now(),
	}
	if err := uc.requestRepo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

// Approve pasa una solicitud de pending a approved. Requiere la capacidad
// Update sobre la bodega. El CAS en el repositorio garantiza que un solo
// aprobador gana; el resto recibe ErrInvalidTransition.
func (uc *UseCase) Approve(ctx context.Context, userID, requestID string) (*entity.TransferRequest, error) {
	request, err := uc.loadAndAuthorize(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}
	applied, err := uc.requestRepo.MarkApproved(request.ID, userID, time.Now())
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, domain.ErrInvalidTransition
	}
	return uc.requestRepo.GetByID(request.ID)
}

// Reject pasa una solicitud de pending a rejected (terminal). Mismas
// precondiciones que Approve; comment es opcional.
func (uc *UseCase) Reject(ctx context.Context, userID, requestID, comment string) (*entity.TransferRequest, error) {
	request, err := uc.loadAndAuthorize(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}
	applied, err := uc.requestRepo.MarkRejected(request.ID, userID, comment, time.Now())
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, domain.ErrInvalidTransition
	}
	return uc.requestRepo.GetByID(request.ID)
}

// Confirm ejecuta una solicitud aprobada: en una sola transacción aplica el
// CAS confirmed false→true (que además bloquea la fila de la solicitud y
// serializa confirmaciones concurrentes) y la mutación del kardex con el
// signo de la tabla de direcciones. Si el kardex falla (stock insuficiente)
// toda la transacción se revierte y la solicitud queda approved/no
// confirmada, lista para reintentar o rechazar.
func (uc *UseCase) Confirm(ctx context.Context, userID, requestID string) (*entity.TransferRequest, error) {
	request, err := uc.loadAndAuthorize(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}
	direction, ok := entity.DirectionForRequest(request.RequestKind)
	if !ok {
		// Una solicitud persistida con tipo desconocido es un bug, no un
		// error del usuario.
		return nil, domain.ErrInvariant
	}
	movement, ok := entity.MovementForRequest(request.RequestKind)
	if !ok {
		return nil, domain.ErrInvariant
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		logRepo repository.StockLogRepository,
		requestRepo repository.TransferRequestRepository,
	) error {
		applied, err := requestRepo.MarkConfirmed(request.ID, userID, now)
		if err != nil {
			return err
		}
		if !applied {
			return domain.ErrInvalidTransition
		}
		_, err = uc.ledger.ApplyInTx(stockRepo, logRepo, stock.ApplyInput{
			WarehouseID: request.WarehouseID,
			ProductID:   request.ProductID,
			StockKind:   request.StockKind,
			Delta:       direction * request.Quantity,
			Movement:    movement,
			RequestKind: request.RequestKind,
			UserID:      userID,
		}, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.requestRepo.GetByID(request.ID)
}

// GetByID devuelve una solicitud; requiere lectura sobre su bodega.
func (uc *UseCase) GetByID(ctx context.Context, userID, requestID string) (*entity.TransferRequest, error) {
	request, err := uc.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.resolver.Authorize(ctx, userID, request.WarehouseID, domaccess.OpRead); err != nil {
		return nil, err
	}
	return request, nil
}

// ListMine lista las solicitudes creadas por el propio usuario. No requiere
// autorización por bodega: el solicitante siempre puede ver lo que pidió.
func (uc *UseCase) ListMine(ctx context.Context, userID string, limit, offset int) ([]*entity.TransferRequest, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.requestRepo.ListByRequester(userID, limit, offset)
}

// ListByWarehouse lista solicitudes de una bodega, opcionalmente por estado.
func (uc *UseCase) ListByWarehouse(ctx context.Context, userID, warehouseID, status string, limit, offset int) ([]*entity.TransferRequest, error) {
	if err := uc.resolver.Authorize(ctx, userID, warehouseID, domaccess.OpRead); err != nil {
		return nil, err
	}
	return uc.requestRepo.ListByWarehouse(warehouseID, status, limit, offset)
}

// loadAndAuthorize carga la solicitud y exige la capacidad Update del actor
// sobre su bodega (aprobación, rechazo y confirmación usan el mismo bit).
func (uc *UseCase) loadAndAuthorize(ctx context.Context, userID, requestID string) (*entity.TransferRequest, error) {
	if userID == "" || requestID == "" {
		return nil, domain.ErrInvalidInput
	}
	request, err := uc.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.resolver.Authorize(ctx, userID, request.WarehouseID, domaccess.OpUpdate); err != nil {
		return nil, err
	}
	return request, nil
}
