package entity

import "time"

// Clases de stock: el inventario regular y el promocional se llevan por separado.
const (
	StockKindRegular     = "regular"
	StockKindPromotional = "promotional"
)

// ValidStockKind informa si la clase de stock es conocida.
func ValidStockKind(kind string) bool {
	return kind == StockKindRegular || kind == StockKindPromotional
}

// Stock representa la cantidad actual de un producto en una bodega por clase
// de stock. Quantity nunca es negativa; solo el kardex (stock.Ledger) la muta.
type Stock struct {
	WarehouseID string
	ProductID   string
	StockKind   string
	Quantity    int64
	UpdatedAt   time.Time
}
