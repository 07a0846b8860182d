package dto

import "time"

// StockInRequest entrada para una reposición directa (stock-in sin solicitud).
type StockInRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required"`
	ProductID   string `json:"product_id" validate:"required"`
	StockKind   string `json:"stock_kind" validate:"required,oneof=regular promotional"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
}

// StockResponse fila de stock de una bodega.
type StockResponse struct {
	WarehouseID string    `json:"warehouse_id"`
	ProductID   string    `json:"product_id"`
	StockKind   string    `json:"stock_kind"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockQuantityResponse cantidad actual de una fila de stock.
type StockQuantityResponse struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	StockKind   string `json:"stock_kind"`
	Quantity    int64  `json:"quantity"`
}

// StockApplyResponse resultado de una mutación del kardex.
type StockApplyResponse struct {
	NewQuantity int64  `json:"new_quantity"`
	LogEntryID  string `json:"log_entry_id"`
}

// StockLogEntryResponse registro del kardex.
type StockLogEntryResponse struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouse_id"`
	ProductID   string    `json:"product_id"`
	StockKind   string    `json:"stock_kind"`
	Quantity    int64     `json:"quantity"`
	Movement    string    `json:"movement"`
	RequestKind string    `json:"request_kind,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
}

// StockLogListResponse kardex paginado.
type StockLogListResponse struct {
	Items []StockLogEntryResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
