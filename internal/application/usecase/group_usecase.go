package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/access"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// GroupUseCase casos de uso CRUD para grupos de bodegas y sus aristas.
type GroupUseCase struct {
	repo          repository.WarehouseGroupRepository
	warehouseRepo repository.WarehouseRepository
	userRepo      repository.UserRepository
}

// NewGroupUseCase construye el caso de uso.
func NewGroupUseCase(
	repo repository.WarehouseGroupRepository,
	warehouseRepo repository.WarehouseRepository,
	userRepo repository.UserRepository,
) *GroupUseCase {
	return &GroupUseCase{repo: repo, warehouseRepo: warehouseRepo, userRepo: userRepo}
}

// Create crea un grupo con su política de acceso.
func (uc *GroupUseCase) Create(companyID string, in dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	policy := access.Policy(in.AccessPolicy)
	if !policy.Valid() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	group := &entity.WarehouseGroup{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         in.Name,
		AccessPolicy: policy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(group); err != nil {
		return nil, err
	}
	return toGroupResponse(group), nil
}

// GetByID obtiene un grupo por ID.
func (uc *GroupUseCase) GetByID(id string) (*dto.GroupResponse, error) {
	group, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, nil
	}
	return toGroupResponse(group), nil
}

// Update actualiza nombre y/o política de un grupo.
func (uc *GroupUseCase) Update(id string, in dto.UpdateGroupRequest) (*dto.GroupResponse, error) {
	group, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, nil
	}
	if in.Name != nil {
		group.Name = *in.Name
	}
	if in.AccessPolicy != nil {
		policy := access.Policy(*in.AccessPolicy)
		if !policy.Valid() {
			return nil, domain.ErrInvalidInput
		}
		group.AccessPolicy = policy
	}
	group.UpdatedAt = time.Now()
	if err := uc.repo.Update(group); err != nil {
		return nil, err
	}
	return toGroupResponse(group), nil
}

// List lista grupos por empresa con paginación.
func (uc *GroupUseCase) List(companyID string, limit, offset int) (*dto.GroupListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.GroupResponse, 0, len(list))
	for _, g := range list {
		items = append(items, *toGroupResponse(g))
	}
	return &dto.GroupListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un grupo (las aristas cascadean en BD; las solicitudes de
// traslado no dependen del grupo y sobreviven).
func (uc *GroupUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

// AddWarehouse agrega una bodega al grupo (arista de membresía).
func (uc *GroupUseCase) AddWarehouse(groupID, warehouseID string) error {
	warehouse, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return domain.ErrNotFound
	}
	group, err := uc.repo.GetByID(groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return domain.ErrNotFound
	}
	return uc.repo.AddWarehouse(groupID, warehouseID)
}

// RemoveWarehouse quita una bodega del grupo.
func (uc *GroupUseCase) RemoveWarehouse(groupID, warehouseID string) error {
	return uc.repo.RemoveWarehouse(groupID, warehouseID)
}

// AddAdmin asigna un usuario como administrador del grupo.
func (uc *GroupUseCase) AddAdmin(groupID, userID string) error {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	group, err := uc.repo.GetByID(groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return domain.ErrNotFound
	}
	return uc.repo.AddAdmin(groupID, userID)
}

// RemoveAdmin quita la asignación de administrador.
func (uc *GroupUseCase) RemoveAdmin(groupID, userID string) error {
	return uc.repo.RemoveAdmin(groupID, userID)
}

func toGroupResponse(g *entity.WarehouseGroup) *dto.GroupResponse {
	if g == nil {
		return nil
	}
	return &dto.GroupResponse{
		ID:           g.ID,
		CompanyID:    g.CompanyID,
		Name:         g.Name,
		AccessPolicy: string(g.AccessPolicy),
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}
