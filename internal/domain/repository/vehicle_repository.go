package repository

import "github.com/jhoicas/Bodegas-api/internal/domain/entity"

// VehicleRepository define el puerto de persistencia para Vehicle (DIP).
type VehicleRepository interface {
	Create(vehicle *entity.Vehicle) error
	GetByID(id string) (*entity.Vehicle, error)
	Update(vehicle *entity.Vehicle) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Vehicle, error)
	Delete(id string) error
}
