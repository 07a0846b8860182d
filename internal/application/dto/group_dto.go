package dto

import "time"

// CreateGroupRequest entrada para crear un grupo de bodegas.
type CreateGroupRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	AccessPolicy string `json:"access_policy" validate:"required,oneof=deny view edit contribute manage"`
}

// UpdateGroupRequest entrada para actualizar un grupo de bodegas.
type UpdateGroupRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	AccessPolicy *string `json:"access_policy" validate:"omitempty,oneof=deny view edit contribute manage"`
}

// GroupResponse salida de un grupo de bodegas.
type GroupResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	Name         string    `json:"name"`
	AccessPolicy string    `json:"access_policy"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GroupListResponse lista paginada de grupos.
type GroupListResponse struct {
	Items []GroupResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// GroupWarehouseRequest arista grupo ↔ bodega.
type GroupWarehouseRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required"`
}

// GroupAdminRequest arista grupo ↔ usuario administrador.
type GroupAdminRequest struct {
	UserID string `json:"user_id" validate:"required"`
}
