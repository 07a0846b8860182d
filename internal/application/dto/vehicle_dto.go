package dto

import "time"

// CreateVehicleRequest entrada para crear un vehículo.
type CreateVehicleRequest struct {
	Plate      string `json:"plate" validate:"required,min=1,max=20"`
	Model      string `json:"model"`
	DriverName string `json:"driver_name"`
}

// UpdateVehicleRequest entrada para actualizar un vehículo.
type UpdateVehicleRequest struct {
	Plate      *string `json:"plate" validate:"omitempty,min=1,max=20"`
	Model      *string `json:"model"`
	DriverName *string `json:"driver_name"`
	Active     *bool   `json:"active"`
}

// VehicleResponse salida de un vehículo.
type VehicleResponse struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	Plate      string    `json:"plate"`
	Model      string    `json:"model"`
	DriverName string    `json:"driver_name"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// VehicleListResponse lista paginada de vehículos.
type VehicleListResponse struct {
	Items []VehicleResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
