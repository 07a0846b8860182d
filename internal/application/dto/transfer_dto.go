package dto

import "time"

// CreateTransferRequest entrada para crear una solicitud de traslado.
type CreateTransferRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required"`
	ProductID   string `json:"product_id" validate:"required"`
	VehicleID   string `json:"vehicle_id"`
	RequestKind string `json:"request_kind" validate:"required,oneof=stock-out transfer return-defect return-normal"`
	StockKind   string `json:"stock_kind" validate:"required,oneof=regular promotional"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
}

// RejectTransferRequest entrada para rechazar una solicitud.
type RejectTransferRequest struct {
	Comment string `json:"comment"`
}

// TransferRequestResponse salida de una solicitud de traslado.
type TransferRequestResponse struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"company_id"`
	WarehouseID string     `json:"warehouse_id"`
	ProductID   string     `json:"product_id"`
	VehicleID   string     `json:"vehicle_id,omitempty"`
	RequestKind string     `json:"request_kind"`
	StockKind   string     `json:"stock_kind"`
	Quantity    int64      `json:"quantity"`
	Status      string     `json:"status"`
	Confirmed   bool       `json:"confirmed"`
	Comment     string     `json:"comment,omitempty"`
	RequestedBy string     `json:"requested_by"`
	ApprovedBy  string     `json:"approved_by,omitempty"`
	ConfirmedBy string     `json:"confirmed_by,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// TransferRequestListResponse lista paginada de solicitudes.
type TransferRequestListResponse struct {
	Items []TransferRequestResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}
