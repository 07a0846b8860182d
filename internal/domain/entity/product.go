package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-bodega).
// Las cantidades se llevan por bodega y clase de stock en Stock.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo de reposición
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
