package entity

import "time"

// Tipos de movimiento del kardex.
const (
	MovementStockIn      = "stock-in"
	MovementStockOut     = "stock-out"
	MovementTransfer     = "transfer"
	MovementReturnDefect = "return-defect"
	MovementReturnNormal = "return-normal"
)

// Tipos de solicitud de traslado (transfer_requests.request_kind).
const (
	RequestStockOut     = "stock-out"
	RequestTransfer     = "transfer"
	RequestReturnDefect = "return-defect"
	RequestReturnNormal = "return-normal"
)

// movementForRequest es la tabla fija solicitud → movimiento del kardex.
// La reposición directa (sin solicitud) usa MovementStockIn.
var movementForRequest = map[string]string{
	RequestStockOut:     MovementStockOut,
	RequestTransfer:     MovementTransfer,
	RequestReturnDefect: MovementReturnDefect,
	RequestReturnNormal: MovementReturnNormal,
}

// MovementForRequest devuelve el tipo de movimiento que produce una solicitud.
func MovementForRequest(requestKind string) (string, bool) {
	m, ok := movementForRequest[requestKind]
	return m, ok
}

// requestDirection es la tabla fija de signo por tipo de solicitud: salidas y
// traslados descuentan, devoluciones suman. El signo lo aplica el caller del
// kardex; el kardex recibe un delta con signo y no conoce tipos de solicitud.
var requestDirection = map[string]int64{
	RequestStockOut:     -1,
	RequestTransfer:     -1,
	RequestReturnDefect: +1,
	RequestReturnNormal: +1,
}

// DirectionForRequest devuelve el signo (+1/-1) del tipo de solicitud.
func DirectionForRequest(requestKind string) (int64, bool) {
	d, ok := requestDirection[requestKind]
	return d, ok
}

// ValidRequestKind informa si el tipo de solicitud es conocido.
func ValidRequestKind(kind string) bool {
	_, ok := requestDirection[kind]
	return ok
}

// StockLogEntry es un registro inmutable del kardex (append-only): nunca se
// actualiza ni se borra. Quantity lleva el signo del movimiento aplicado.
type StockLogEntry struct {
	ID          string
	WarehouseID string
	ProductID   string
	StockKind   string
	Quantity    int64
	Movement    string
	RequestKind string // vacío para reposición directa
	CreatedAt   time.Time
	CreatedBy   string // UserID
}
