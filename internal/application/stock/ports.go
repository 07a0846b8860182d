package stock

import (
	"context"

	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el kardex y para
// la confirmación de solicitudes (mutación de stock + registro + CAS de la
// solicitud en una sola transacción).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		logRepo repository.StockLogRepository,
		requestRepo repository.TransferRequestRepository,
	) error) error
}
