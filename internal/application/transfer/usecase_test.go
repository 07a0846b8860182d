package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodegas-api/internal/application/stock"
	"github.com/jhoicas/Bodegas-api/internal/application/transfer"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	domaccess "github.com/jhoicas/Bodegas-api/internal/domain/access"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El fakeTxRunner toma un snapshot antes de ejecutar y lo
// restaura si la función falla: simula el rollback de la transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeResolver struct {
	masks map[string]domaccess.Capability // key: userID|warehouseID
}

func (f *fakeResolver) grant(userID, warehouseID string, mask domaccess.Capability) {
	f.masks[userID+"|"+warehouseID] = mask
}

func (f *fakeResolver) Authorize(_ context.Context, userID, warehouseID string, op domaccess.Operation) error {
	if f.masks[userID+"|"+warehouseID].Allows(op) {
		return nil
	}
	return domain.ErrForbidden
}

type fakeStockRepo struct {
	rows map[string]*entity.Stock
}

func stockKey(warehouseID, productID, kind string) string {
	return warehouseID + "|" + productID + "|" + kind
}

func (f *fakeStockRepo) Get(warehouseID, productID, stockKind string) (*entity.Stock, error) {
	if s, ok := f.rows[stockKey(warehouseID, productID, stockKind)]; ok {
		cp := *s
		return &cp, nil
	}
	return &entity.Stock{WarehouseID: warehouseID, ProductID: productID, StockKind: stockKind}, nil
}

// GetForUpdate materializa la fila en cero si no existe, como el adaptador real.
func (f *fakeStockRepo) GetForUpdate(warehouseID, productID, stockKind string) (*entity.Stock, error) {
	key := stockKey(warehouseID, productID, stockKind)
	if _, ok := f.rows[key]; !ok {
		f.rows[key] = &entity.Stock{WarehouseID: warehouseID, ProductID: productID, StockKind: stockKind}
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

func (f *fakeLogRepo) ListByWarehouse(string, *time.Time, *time.Time, int, int) ([]*entity.StockLogEntry, error) {
	return f.entries, nil
}

func (f *fakeLogRepo) ListByStock(string, string, *time.Time, *time.Time, int, int) ([]*entity.StockLogEntry, error) {
	return f.entries, nil
}

type fakeRequestRepo struct {
	byID map[string]*entity.TransferRequest
}

func (f *fakeRequestRepo) Create(r *entity.TransferRequest) error {
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) GetByID(id string) (*entity.TransferRequest, error) {
	if r, ok := f.byID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRequestRepo) ListByWarehouse(warehouseID, status string, limit, offset int) ([]*entity.TransferRequest, error) {
	var out []*entity.TransferRequest
	for _, r := range f.byID {
		if r.WarehouseID == warehouseID && (status == "" || r.Status == status) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListByRequester(userID string, limit, offset int) ([]*entity.TransferRequest, error) {
	var out []*entity.TransferRequest
	for _, r := range f.byID {
		if r.RequestedBy == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) MarkApproved(id, approverID string, at time.Time) (bool, error) {
	r, ok := f.byID[id]
	if !ok || r.Status != entity.StatusPending {
		return false, nil
	}
	r.Status = entity.StatusApproved
	r.ApprovedBy = approverID
	r.ApprovedAt = &at
	return true, nil
}

func (f *fakeRequestRepo) MarkRejected(id, approverID, comment string, at time.Time) (bool, error) {
	r, ok := f.byID[id]
	if !ok || r.Status != entity.StatusPending {
		return false, nil
	}
	r.Status = entity.StatusRejected
	r.ApprovedBy = approverID
	r.Comment = comment
	r.ApprovedAt = &at
	return true, nil
}

func (f *fakeRequestRepo) MarkConfirmed(id, confirmerID string, at time.Time) (bool, error) {
	r, ok := f.byID[id]
	if !ok || r.Status != entity.StatusApproved || r.Confirmed {
		return false, nil
	}
	r.Confirmed = true
	r.ConfirmedBy = confirmerID
	r.ConfirmedAt = &at
	return true, nil
}

// fakeTxRunner con rollback por snapshot.
type fakeTxRunner struct {
	stockRepo   *fakeStockRepo
	logRepo     *fakeLogRepo
	requestRepo *fakeRequestRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	logRepo repository.StockLogRepository,
	requestRepo repository.TransferRequestRepository,
) error) error {
	stockSnap := make(map[string]*entity.Stock, len(f.stockRepo.rows))
	for k, v := range f.stockRepo.rows {
		cp := *v
		stockSnap[k] = &cp
	}
	logSnap := append([]*entity.StockLogEntry(nil), f.logRepo.entries...)
	requestSnap := make(map[string]*entity.TransferRequest, len(f.requestRepo.byID))
	for k, v := range f.requestRepo.byID {
		cp := *v
		requestSnap[k] = &cp
	}

	if err := fn(f.stockRepo, f.logRepo, f.requestRepo); err != nil {
		f.stockRepo.rows = stockSnap
		f.logRepo.entries = logSnap
		f.requestRepo.byID = requestSnap
		return err
	}
	return nil
}

type fakeWarehouseRepo struct {
	byID map[string]*entity.Warehouse
}

func (f *fakeWarehouseRepo) Create(w *entity.Warehouse) error { f.byID[w.ID] = w; return nil }
func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return f.byID[id], nil
}
func (f *fakeWarehouseRepo) ListByIDs(ids []string) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, id := range ids {
		if w, ok := f.byID[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}
func (f *fakeWarehouseRepo) Update(*entity.Warehouse) error { return nil }
func (f *fakeWarehouseRepo) ListByCompany(string, int, int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (f *fakeWarehouseRepo) Delete(string) error { return nil }

type fakeProductRepo struct {
	byID map[string]*entity.Product
}

func (f *fakeProductRepo) Create(p *entity.Product) error { f.byID[p.ID] = p; return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.byID[id], nil
}
func (f *fakeProductRepo) GetBySKU(string, string) (*entity.Product, error) { return nil, nil }
func (f *fakeProductRepo) Update(*entity.Product) error                     { return nil }
func (f *fakeProductRepo) ListByCompany(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Delete(string) error { return nil }

type fakeVehicleRepo struct {
	byID map[string]*entity.Vehicle
}

func (f *fakeVehicleRepo) Create(v *entity.Vehicle) error { f.byID[v.ID] = v; return nil }
func (f *fakeVehicleRepo) GetByID(id string) (*entity.Vehicle, error) {
	return f.byID[id], nil
}
func (f *fakeVehicleRepo) Update(*entity.Vehicle) error { return nil }
func (f *fakeVehicleRepo) ListByCompany(string, int, int) ([]*entity.Vehicle, error) {
	return nil, nil
}
func (f *fakeVehicleRepo) Delete(string) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompany   = "co-1"
	testWarehouse = "wh-1"
	testProduct   = "prod-1"
	testRequester = "user-requester"
	testApprover  = "user-approver"
)

type fixture struct {
	uc          *transfer.UseCase
	ledger      *stock.Ledger
	resolver    *fakeResolver
	requestRepo *fakeRequestRepo
	logRepo     *fakeLogRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stockRepo := &fakeStockRepo{rows: make(map[string]*entity.Stock)}
	logRepo := &fakeLogRepo{}
	requestRepo := &fakeRequestRepo{byID: make(map[string]*entity.TransferRequest)}
	runner := &fakeTxRunner{stockRepo: stockRepo, logRepo: logRepo, requestRepo: requestRepo}
	ledger := stock.NewLedger(runner, stockRepo, logRepo)

	resolver := &fakeResolver{masks: make(map[string]domaccess.Capability)}
	resolver.grant(testRequester, testWarehouse, domaccess.PolicyContribute.Mask())
	resolver.grant(testApprover, testWarehouse, domaccess.PolicyManage.Mask())

	warehouseRepo := &fakeWarehouseRepo{byID: map[string]*entity.Warehouse{
		testWarehouse: {ID: testWarehouse, CompanyID: testCompany, Name: "Bodega Central"},
	}}
	productRepo := &fakeProductRepo{byID: map[string]*entity.Product{
		testProduct: {ID: testProduct, CompanyID: testCompany, SKU: "SKU-1", Name: "Café 500g"},
	}}
	vehicleRepo := &fakeVehicleRepo{byID: map[string]*entity.Vehicle{
		"veh-1": {ID: "veh-1", CompanyID: testCompany, Plate: "ABC123"},
	}}

	uc := transfer.NewUseCase(runner, ledger, resolver, requestRepo, warehouseRepo, productRepo, vehicleRepo)
	return &fixture{uc: uc, ledger: ledger, resolver: resolver, requestRepo: requestRepo, logRepo: logRepo}
}

func (f *fixture) seedStock(t *testing.T, quantity int64) {
	t.Helper()
	_, err := f.ledger.RegisterStockIn(context.Background(), testWarehouse, testProduct, entity.StockKindRegular, quantity, "seed")
	require.NoError(t, err)
}

func (f *fixture) createRequest(t *testing.T, kind string, quantity int64) *entity.TransferRequest {
	t.Helper()
	req, err := f.uc.Create(context.Background(), testCompany, testRequester, transfer.CreateInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		RequestKind: kind,
		StockKind:   entity.StockKindRegular,
		Quantity:    quantity,
	})
	require.NoError(t, err)
	return req
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_SolicitudQuedaPending(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 50)

	req := f.createRequest(t, entity.RequestStockOut, 20)
	assert.Equal(t, entity.StatusPending, req.Status)
	assert.False(t, req.Confirmed)
	assert.Equal(t, testRequester, req.RequestedBy)

	// Crear no toca stock.
	qty, err := f.ledger.GetQuantity(context.Background(), testWarehouse, testProduct, entity.StockKindRegular)
	require.NoError(t, err)
	assert.Equal(t, int64(50), qty)
}

func TestCreate_TipoDeSolicitudDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), testCompany, testRequester, transfer.CreateInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		RequestKind: "loan", // no existe
		StockKind:   entity.StockKindRegular,
		Quantity:    1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_SinCapacidadCreate(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 50)
	f.resolver.grant(testRequester, testWarehouse, domaccess.PolicyView.Mask()) // solo lectura

	_, err := f.uc.Create(context.Background(), testCompany, testRequester, transfer.CreateInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		RequestKind: entity.RequestStockOut,
		StockKind:   entity.StockKindRegular,
		Quantity:    1,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_ChequeoTempranoDeStock(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 5)

	// Pedir 10 con 5 disponibles se rechaza temprano para tipos que descuentan.
	_, err := f.uc.Create(context.Background(), testCompany, testRequester, transfer.CreateInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		RequestKind: entity.RequestTransfer,
		StockKind:   entity.StockKindRegular,
		Quantity:    10,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Una devolución no descuenta: no exige stock previo.
	_, err = f.uc.Create(context.Background(), testCompany, testRequester, transfer.CreateInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		RequestKind: entity.RequestReturnNormal,
		StockKind:   entity.StockKindRegular,
		Quantity:    10,
	})
	assert.NoError(t, err)
}

func TestCreate_BodegaDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 50)

	_, err := f.uc.Create(context.Background(), "otra-empresa", testRequester, transfer.CreateInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		RequestKind: entity.RequestStockOut,
		StockKind:   entity.StockKindRegular,
		Quantity:    1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve / Reject
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_NoTocaStock(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 50)
	req := f.createRequest(t, entity.RequestStockOut, 20)

	approved, err := f.uc.Approve(context.Background(), testApprover, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, approved.Status)
	assert.Equal(t, testApprover, approved.ApprovedBy)
	assert.False(t, approved.Confirmed)

	qty, _ := f.ledger.GetQuantity(context.Background(), testWarehouse, testProduct, entity.StockKindRegular)
	assert.Equal(t, int64(50), qty, "aprobar no muta stock")
}

func TestApprove_DobleAprobacion(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 50)
	req := f.createRequest(t, entity.RequestStockOut, 20)

	_, err := f.uc.Approve(context.Background(), testApprover, req.ID)
	require.NoError(t, err)

	_, err = f.uc.Approve(context.Background(), testApprover, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "una solicitud ya aprobada no puede reaprobarse")
}

func TestReject_EsTerminal(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 50)
	req := f.createRequest(t, entity.RequestStockOut, 20)

	rejected, err := f.uc.Reject(context.Background(), testApprover, req.ID, "producto dañado en bodega")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, rejected.Status)
	assert.Equal(t, "producto dañado en bodega", rejected.Comment)

	// Rechazada no admite aprobación ni confirmación.
	_, err = f.uc.Approve(context.Background(), testApprover, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.Confirm(context.Background(), testApprover, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestApprove_SinCapacidadUpdate(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 50)
	req := f.createRequest(t, entity.RequestStockOut, 20)

	// view solo tiene Read: no puede aprobar.
	f.resolver.grant("user-viewer", testWarehouse, domaccess.PolicyView.Mask())
	_, err := f.uc.Approve(context.Background(), "user-viewer", req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirm
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_DescuentaYRegistra(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 50)
	req := f.createRequest(t, entity.RequestStockOut, 50)

	_, err := f.uc.Approve(context.Background(), testApprover, req.ID)
	require.NoError(t, err)

	confirmed, err := f.uc.Confirm(context.Background(), testApprover, req.ID)
	require.NoError(t, err)
	assert.True(t, confirmed.Confirmed)
	assert.Equal(t, entity.StatusApproved, confirmed.Status, "confirmar no cambia el estado, solo la bandera")
	assert.Equal(t, testApprover, confirmed.ConfirmedBy)

	// 50 - 50 = 0: descontar hasta cero es válido.
	qty, _ := f.ledger.GetQuantity(context.Background(), testWarehouse, testProduct, entity.StockKindRegular)
	assert.Equal(t, int64(0), qty)

	// Un registro del seed más uno de la confirmación.
	require.Len(t, f.logRepo.entries, 2)
	last := f.logRepo.entries[1]
	assert.Equal(t, entity.MovementStockOut, last.Movement)
	assert.Equal(t, int64(-50), last.Quantity, "el registro lleva el delta con signo")
	assert.Equal(t, entity.RequestStockOut, last.RequestKind)
}

func TestConfirm_DevolucionSuma(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 10)
	req := f.createRequest(t, entity.RequestReturnDefect, 4)

	_, err := f.uc.Approve(context.Background(), testApprover, req.ID)
	require.NoError(t, err)
	_, err = f.uc.Confirm(context.Background(), testApprover, req.ID)
	require.NoError(t, err)

	qty, _ := f.ledger.GetQuantity(context.Background(), testWarehouse, testProduct, entity.StockKindRegular)
	assert.Equal(t, int64(14), qty, "las devoluciones incrementan stock")
}

func TestConfirm_DobleConfirmacion(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 50)
	req := f.createRequest(t, entity.RequestStockOut, 20)

	_, err := f.uc.Approve(context.Background(), testApprover, req.ID)
	require.NoError(t, err)
	_, err = f.uc.Confirm(context.Background(), testApprover, req.ID)
	require.NoError(t, err)

	// La segunda confirmación pierde el CAS: el stock se descuenta una sola vez.
	_, err = f.uc.Confirm(context.Background(), testApprover, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	qty, _ := f.ledger.GetQuantity(context.Background(), testWarehouse, testProduct, entity.StockKindRegular)
	assert.Equal(t, int64(30), qty, "una doble confirmación no descuenta dos veces")
}

func TestConfirm_SinAprobar(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 50)
	req := f.createRequest(t, entity.RequestStockOut, 20)

	_, err := f.uc.Confirm(context.Background(), testApprover, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pending no se puede confirmar")
}

func TestConfirm_StockInsuficienteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 30)
	req := f.createRequest(t, entity.RequestStockOut, 20)
	_, err := f.uc.Approve(context.Background(), testApprover, req.ID)
	require.NoError(t, err)

	// Otra salida vacía la bodega antes de confirmar.
	_, err = f.ledger.Apply(context.Background(), stock.ApplyInput{
		WarehouseID: testWarehouse,
		ProductID:   testProduct,
		StockKind:   entity.StockKindRegular,
		Delta:       -25,
		Movement:    entity.MovementStockOut,
		RequestKind: entity.RequestStockOut,
		UserID:      "otro-usuario",
	})
	require.NoError(t, err)

	_, err = f.uc.Confirm(context.Background(), testApprover, req.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La transacción se revierte: la solicitud queda approved y sin confirmar.
	after, err := f.requestRepo.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, after.Status)
	assert.False(t, after.Confirmed, "el rollback deja la solicitud lista para reintentar")

	qty, _ := f.ledger.GetQuantity(context.Background(), testWarehouse, testProduct, entity.StockKindRegular)
	assert.Equal(t, int64(5), qty, "la confirmación fallida no toca stock")
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_RequiereLectura(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 50)
	req := f.createRequest(t, entity.RequestStockOut, 5)

	// Sin máscara sobre la bodega, la solicitud es invisible.
	_, err := f.uc.GetByID(context.Background(), "user-extranjero", req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.uc.GetByID(context.Background(), testRequester, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)
}

func TestGetByID_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GetByID(context.Background(), testRequester, "req-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByWarehouse_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, 50)
	a := f.createRequest(t, entity.RequestStockOut, 5)
	f.createRequest(t, entity.RequestStockOut, 5)

	_, err := f.uc.Approve(context.Background(), testApprover, a.ID)
	require.NoError(t, err)

	pendientes, err := f.uc.ListByWarehouse(context.Background(), testRequester, testWarehouse, entity.StatusPending, 20, 0)
	require.NoError(t, err)
	assert.Len(t, pendientes, 1)

	todas, err := f.uc.ListByWarehouse(context.Background(), testRequester, testWarehouse, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, todas, 2)
}
