package repository

import "github.com/jhoicas/Bodegas-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar stock por
// (bodega, producto, clase). Usado dentro de transacciones para garantizar
// consistencia.
type StockRepository interface {
	// Get devuelve la fila de stock; si no existe devuelve una fila en cero.
	Get(warehouseID, productID, stockKind string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE),
	// creándola en cero si no existe. Las mutaciones concurrentes sobre
	// la misma fila se serializan aquí, incluido el primer movimiento.
	GetForUpdate(warehouseID, productID, stockKind string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Stock, error)
}
