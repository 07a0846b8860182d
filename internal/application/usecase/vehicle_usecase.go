package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// VehicleUseCase casos de uso CRUD para vehículos de reparto.
type VehicleUseCase struct {
	repo repository.VehicleRepository
}

// NewVehicleUseCase construye el caso de uso.
func NewVehicleUseCase(repo repository.VehicleRepository) *VehicleUseCase {
	return &VehicleUseCase{repo: repo}
}

// Create crea un vehículo activo.
func (uc *VehicleUseCase) Create(companyID string, in dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	now := time.Now()
	vehicle := &entity.Vehicle{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Plate:      in.Plate,
		Model:      in.Model,
		DriverName: in.DriverName,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(vehicle); err != nil {
		return nil, err
	}
	return toVehicleResponse(vehicle), nil
}

// GetByID obtiene un vehículo por ID.
func (uc *VehicleUseCase) GetByID(id string) (*dto.VehicleResponse, error) {
	vehicle, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, nil
	}
	return toVehicleResponse(vehicle), nil
}

// Update actualiza un vehículo.
func (uc *VehicleUseCase) Update(id string, in dto.UpdateVehicleRequest) (*dto.VehicleResponse, error) {
	vehicle, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, nil
	}
	if in.Plate != nil {
		vehicle.Plate = *in.Plate
	}
	if in.Model != nil {
		vehicle.Model = *in.Model
	}
	if in.DriverName != nil {
		vehicle.DriverName = *in.DriverName
	}
	if in.Active != nil {
		vehicle.Active = *in.Active
	}
	vehicle.UpdatedAt = time.Now()
	if err := uc.repo.Update(vehicle); err != nil {
		return nil, err
	}
	return toVehicleResponse(vehicle), nil
}

// List lista vehículos por empresa con paginación.
func (uc *VehicleUseCase) List(companyID string, limit, offset int) (*dto.VehicleListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVehicleResponse(v))
	}
	return &dto.VehicleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un vehículo por ID.
func (uc *VehicleUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toVehicleResponse(v *entity.Vehicle) *dto.VehicleResponse {
	if v == nil {
		return nil
	}
	return &dto.VehicleResponse{
		ID:         v.ID,
		CompanyID:  v.CompanyID,
		Plate:      v.Plate,
		Model:      v.Model,
		DriverName: v.DriverName,
		Active:     v.Active,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}
