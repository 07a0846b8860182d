package entity

import "time"

// Estados de una solicitud de traslado.
// pending → approved | rejected; confirmed pasa de false a true exactamente
// una vez y solo con estado approved. Rechazada o confirmada es terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// TransferRequest es una solicitud de movimiento de stock (parada de bodega):
// salida, traslado a vehículo o devolución. Sobrevive a cambios de grupos y
// de asignaciones de administradores.
type TransferRequest struct {
	ID          string
	CompanyID   string
	WarehouseID string
	ProductID   string
	VehicleID   string // opcional: vehículo de la ruta
	RequestKind string // ver constantes Request*
	StockKind   string // regular | promotional
	Quantity    int64
	Status      string
	Confirmed   bool
	Comment     string // motivo de rechazo, opcional
	RequestedBy string
	ApprovedBy  string // opcional hasta aprobar/rechazar
	ConfirmedBy string
	RequestedAt time.Time
	ApprovedAt  *time.Time
	ConfirmedAt *time.Time
}
