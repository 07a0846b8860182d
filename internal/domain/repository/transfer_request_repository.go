package repository

import (
	"time"

	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

// TransferRequestRepository define el puerto de persistencia para solicitudes
// de traslado. Las transiciones de estado son compare-and-set: el UPDATE lleva
// el estado esperado en el WHERE y el bool de retorno indica si aplicó. Dos
// llamadas concurrentes sobre la misma solicitud producen exactamente un true.
type TransferRequestRepository interface {
	Create(request *entity.TransferRequest) error
	GetByID(id string) (*entity.TransferRequest, error)
	ListByWarehouse(warehouseID, status string, limit, offset int) ([]*entity.TransferRequest, error)
	ListByRequester(userID string, limit, offset int) ([]*entity.TransferRequest, error)

	// MarkApproved: pending → approved. false si el estado ya no era pending.
	MarkApproved(id, approverID string, at time.Time) (bool, error)
	// MarkRejected: pending → rejected (terminal). false si no era pending.
	MarkRejected(id, approverID, comment string, at time.Time) (bool, error)
	// MarkConfirmed: confirmed false → true, solo con estado approved.
	// false si la solicitud no estaba approved o ya estaba confirmada.
	MarkConfirmed(id, confirmerID string, at time.Time) (bool, error)
}
