package repository

import (
	"time"

	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

// StockLogRepository define el puerto de persistencia para el kardex
// (append-only: solo Create y lecturas, nunca update ni delete).
type StockLogRepository interface {
	Create(entry *entity.StockLogEntry) error
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockLogEntry, error)
	ListByStock(warehouseID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLogEntry, error)
}
