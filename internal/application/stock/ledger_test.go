package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodegas-api/internal/application/stock"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (sin DB). El fakeTxRunner ejecuta la función directamente
// sobre los mismos repos: suficiente para probar la lógica del kardex.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	rows map[string]*entity.Stock
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{rows: make(map[string]*entity.Stock)}
}

func stockKey(warehouseID, productID, kind string) string {
	return warehouseID + "|" + productID + "|" + kind
}

func (f *fakeStockRepo) Get(warehouseID, productID, stockKind string) (*entity.Stock, error) {
	if s, ok := f.rows[stockKey(warehouseID, productID, stockKind)]; ok {
		cp := *s
		return &cp, nil
	}
	return &entity.Stock{
		WarehouseID: warehouseID,
		ProductID:   productID,
		StockKind:   stockKind,
	}, nil
}

// GetForUpdate materializa la fila en cero si no existe, igual que el
// adaptador real: el bloqueo de fila necesita una fila que bloquear.
func (f *fakeStockRepo) GetForUpdate(warehouseID, productID, stockKind string) (*entity.Stock, error) {
	key := stockKey(warehouseID, productID, stockKind)
	if _, ok := f.rows[key]; !ok {
		f.rows[key] = &entity.Stock{
			WarehouseID: warehouseID,
			ProductID:   productID,
			StockKind:   stockKind,
		}
	}
	cp := *f.rows[key]
	return &cp, nil
}

func (f *fakeStockRepo) Upsert(s *entity.Stock) error {
	cp := *s
	f.rows[stockKey(s.WarehouseID, s.ProductID, s.StockKind)] = &cp
	return nil
}

func (f *fakeStockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Stock, error) {
	var out []*entity.Stock
	for _, s := range f.rows {
		if s.WarehouseID == warehouseID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeLogRepo struct {
	entries []*entity.StockLogEntry
}

func (f *fakeLogRepo) Create(entry *entity.StockLogEntry) error {
	cp := *entry
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeLogRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockLogEntry, error) {
	var out []*entity.StockLogEntry
	for _, e := range f.entries {
		if e.WarehouseID == warehouseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLogRepo) ListByStock(warehouseID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLogEntry, error) {
	var out []*entity.StockLogEntry
	for _, e := range f.entries {
		if e.WarehouseID == warehouseID && e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeTxRunner struct {
	stockRepo *fakeStockRepo
	logRepo   *fakeLogRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	logRepo repository.StockLogRepository,
	requestRepo repository.TransferRequestRepository,
) error) error {
	return fn(f.stockRepo, f.logRepo, nil)
}

func newTestLedger() (*stock.Ledger, *fakeStockRepo, *fakeLogRepo) {
	stockRepo := newFakeStockRepo()
	logRepo := &fakeLogRepo{}
	runner := &fakeTxRunner{stockRepo: stockRepo, logRepo: logRepo}
	return stock.NewLedger(runner, stockRepo, logRepo), stockRepo, logRepo
}

const (
	testWarehouse = "wh-1"
	testProduct   = "prod-1"
)

// ──────────────────────────────────────────────────────────────────────────────
// Reposición directa
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterStockIn_CreaFilaYRegistro(t *testing.T) {
	ledger, _, logRepo := newTestLedger()
	ctx := context.Background()

	result, err := ledger.RegisterStockIn(ctx, testWarehouse, testProduct, entity.StockKindRegular, 50, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.NewQuantity)
	assert.NotEmpty(t, result.LogEntryID)

	qty, err := ledger.GetQuantity(ctx, testWarehouse, testProduct, entity.StockKindRegular)
	require.NoError(t, err)
	assert.Equal(t, int64(50), qty)

	require.Len(t, logRepo.entries, 1, "cada mutación escribe exactamente un registro")
	entry := logRepo.entries[0]
	assert.Equal(t, entity.MovementStockIn, entry.Movement)
	assert.Equal(t, int64(50), entry.Quantity)
	assert.Equal(t, "user-1", entry.CreatedBy)
	assert.Empty(t, entry.RequestKind, "la reposición directa no tiene tipo de solicitud")
}

func TestRegisterStockIn_CantidadNoPositiva(t *testing.T) {
	ledger, _, _ := newTestLedger()
	ctx := context.Background()

	_, err := ledger.RegisterStockIn(ctx, testWarehouse, testProduct, entity.StockKindRegular, 0, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.RegisterStockIn(ctx, testWarehouse, testProduct, entity.StockKindRegular, -5, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Primer movimiento sobre una fila nueva
// ──────────────────────────────────────────────────────────────────────────────

// Dos primeras entradas sobre la misma fila deben acumularse: cada una relee
// la cantidad ya confirmada bajo bloqueo, nunca una lectura sintética en cero.
func TestRegisterStockIn_EntradasInicialesSeAcumulan(t *testing.T) {
	ledger, stockRepo, logRepo := newTestLedger()
	ctx := context.Background()

	r1, err := ledger.RegisterStockIn(ctx, testWarehouse, testProduct, entity.StockKindRegular, 5, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), r1.NewQuantity)

	r2, err := ledger.RegisterStockIn(ctx, testWarehouse, testProduct, entity.StockKindRegular, 5, "user-2")
	require.NoError(t, err)
	assert.Equal(t, int64(10), r2.NewQuantity, "la segunda entrada no debe pisar a la primera")

	row := stockRepo.rows[stockKey(testWarehouse, testProduct, entity.StockKindRegular)]
	require.NotNil(t, row)
	assert.Equal(t, int64(10), row.Quantity)

	var sum int64
	for _, e := range logRepo.entries {
		sum += e.Quantity
	}
	require.Len(t, logRepo.entries, 2)
	assert.Equal(t, row.Quantity, sum, "la suma del kardex debe igualar la cantidad actual")
}

func TestApply_ElBloqueoCreaLaFilaEnCero(t *testing.T) {
	ledger, stockRepo, _ := newTestLedger()
	ctx := context.Background()

	_, err := ledger.Apply(ctx, stock.ApplyInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		StockKind:   entity.StockKindRegular,
		Delta:       -1,
		Movement:    entity.MovementStockOut,
		RequestKind: entity.RequestStockOut,
		UserID:      "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La fila queda creada en cero por el bloqueo aunque la mutación se rechace.
	row := stockRepo.rows[stockKey(testWarehouse, testProduct, entity.StockKindRegular)]
	require.NotNil(t, row)
	assert.Equal(t, int64(0), row.Quantity)
}

func TestApplyInTx_PropagaMarcaDeTiempo(t *testing.T) {
	ledger, stockRepo, logRepo := newTestLedger()
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	_, err := ledger.ApplyInTx(stockRepo, logRepo, stock.ApplyInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		StockKind:   entity.StockKindRegular,
		Delta:       7,
		Movement:    entity.MovementStockIn,
		UserID:      "user-1",
	}, now)
	require.NoError(t, err)

	row := stockRepo.rows[stockKey(testWarehouse, testProduct, entity.StockKindRegular)]
	require.NotNil(t, row)
	assert.Equal(t, now, row.UpdatedAt, "la fila guarda el instante de la mutación")
	require.Len(t, logRepo.entries, 1)
	assert.Equal(t, now, logRepo.entries[0].CreatedAt, "fila y registro comparten instante")
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante de no-negatividad
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_StockInsuficiente(t *testing.T) {
	ledger, _, logRepo := newTestLedger()
	ctx := context.Background()

	_, err := ledger.RegisterStockIn(ctx, testWarehouse, testProduct, entity.StockKindRegular, 10, "user-1")
	require.NoError(t, err)

	// Descontar 11 de 10 debe fallar sin tocar nada.
	_, err = ledger.Apply(ctx, stock.ApplyInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		StockKind:   entity.StockKindRegular,
		Delta:       -11,
		Movement:    entity.MovementStockOut,
		RequestKind: entity.RequestStockOut,
		UserID:      "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	qty, err := ledger.GetQuantity(ctx, testWarehouse, testProduct, entity.StockKindRegular)
	require.NoError(t, err)
	assert.Equal(t, int64(10), qty, "la cantidad no debe cambiar en una mutación rechazada")
	assert.Len(t, logRepo.entries, 1, "la mutación rechazada no escribe registro")
}

func TestApply_DescontarHastaCeroEsValido(t *testing.T) {
	ledger, _, _ := newTestLedger()
	ctx := context.Background()

	_, err := ledger.RegisterStockIn(ctx, testWarehouse, testProduct, entity.StockKindRegular, 10, "user-1")
	require.NoError(t, err)

	result, err := ledger.Apply(ctx, stock.ApplyInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		StockKind:   entity.StockKindRegular,
		Delta:       -10,
		Movement:    entity.MovementStockOut,
		RequestKind: entity.RequestStockOut,
		UserID:      "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.NewQuantity)
}

func TestApply_FilaInexistenteRechazaDescuento(t *testing.T) {
	ledger, _, _ := newTestLedger()
	ctx := context.Background()

	// Sin fila previa la cantidad es 0: cualquier descuento debe fallar.
	_, err := ledger.Apply(ctx, stock.ApplyInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		StockKind:   entity.StockKindRegular,
		Delta:       -1,
		Movement:    entity.MovementStockOut,
		RequestKind: entity.RequestStockOut,
		UserID:      "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consistencia kardex ↔ cantidad
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_SumaDelKardexIgualaCantidad(t *testing.T) {
	ledger, _, logRepo := newTestLedger()
	ctx := context.Background()

	deltas := []struct {
		delta    int64
		movement string
		kind     string
	}{
		{100, entity.MovementStockIn, ""},
		{-30, entity.MovementStockOut, entity.RequestStockOut},
		{-20, entity.MovementTransfer, entity.RequestTransfer},
		{5, entity.MovementReturnNormal, entity.RequestReturnNormal},
		{3, entity.MovementReturnDefect, entity.RequestReturnDefect},
	}
	for _, d := range deltas {
		_, err := ledger.Apply(ctx, stock.ApplyInput{
			WarehouseID: testWarehouse,
			ProductID:   testProduct,
			StockKind:   entity.StockKindRegular,
			Delta:       d.delta,
			Movement:    d.movement,
			RequestKind: d.kind,
			UserID:      "user-1",
		})
		require.NoError(t, err)
	}

	var sum int64
	for _, e := range logRepo.entries {
		sum += e.Quantity
	}
	qty, err := ledger.GetQuantity(ctx, testWarehouse, testProduct, entity.StockKindRegular)
	require.NoError(t, err)
	assert.Equal(t, qty, sum, "la suma del kardex debe igualar la cantidad actual")
	assert.Equal(t, int64(58), qty)
	assert.Len(t, logRepo.entries, len(deltas))
}

func TestApply_ClasesDeStockIndependientes(t *testing.T) {
	ledger, _, _ := newTestLedger()
	ctx := context.Background()

	_, err := ledger.RegisterStockIn(ctx, testWarehouse, testProduct, entity.StockKindRegular, 10, "user-1")
	require.NoError(t, err)
	_, err = ledger.RegisterStockIn(ctx, testWarehouse, testProduct, entity.StockKindPromotional, 3, "user-1")
	require.NoError(t, err)

	regular, _ := ledger.GetQuantity(ctx, testWarehouse, testProduct, entity.StockKindRegular)
	promo, _ := ledger.GetQuantity(ctx, testWarehouse, testProduct, entity.StockKindPromotional)
	assert.Equal(t, int64(10), regular)
	assert.Equal(t, int64(3), promo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_EntradasInvalidas(t *testing.T) {
	ledger, _, _ := newTestLedger()
	ctx := context.Background()

	base := stock.ApplyInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		StockKind:   entity.StockKindRegular,
		Delta:       1,
		Movement:    entity.MovementStockIn,
		UserID:      "user-1",
	}

	cases := []struct {
		name   string
		mutate func(*stock.ApplyInput)
	}{
		{"sin bodega", func(in *stock.ApplyInput) { in.WarehouseID = "" }},
		{"sin producto", func(in *stock.ApplyInput) { in.ProductID = "" }},
		{"clase desconocida", func(in *stock.ApplyInput) { in.StockKind = "seasonal" }},
		{"delta cero", func(in *stock.ApplyInput) { in.Delta = 0 }},
		{"movimiento desconocido", func(in *stock.ApplyInput) { in.Movement = "adjustment" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := ledger.Apply(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestGetQuantity_FilaInexistenteEsCero(t *testing.T) {
	ledger, _, _ := newTestLedger()

	qty, err := ledger.GetQuantity(context.Background(), testWarehouse, "prod-nunca-visto", entity.StockKindRegular)
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)
}
