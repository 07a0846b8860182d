package repository

import (
	"github.com/jhoicas/Bodegas-api/internal/domain/access"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

// WarehouseGroupRepository define el puerto de persistencia para grupos de
// bodegas y sus dos aristas muchos-a-muchos (membresía de bodegas y
// asignación de administradores). Borrar un grupo o una bodega cascadea sus
// aristas (FK ON DELETE CASCADE); las solicitudes de traslado no dependen de
// las aristas y sobreviven.
type WarehouseGroupRepository interface {
	Create(group *entity.WarehouseGroup) error
	GetByID(id string) (*entity.WarehouseGroup, error)
	Update(group *entity.WarehouseGroup) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.WarehouseGroup, error)
	Delete(id string) error

	AddWarehouse(groupID, warehouseID string) error
	RemoveWarehouse(groupID, warehouseID string) error
	AddAdmin(groupID, userID string) error
	RemoveAdmin(groupID, userID string) error

	// PoliciesForUserWarehouse devuelve las políticas de los grupos que a la
	// vez contienen la bodega y asignan al usuario. Lista vacía = sin relación.
	PoliciesForUserWarehouse(userID, warehouseID string) ([]access.Policy, error)
	// PoliciesByUser devuelve, por bodega, las políticas de los grupos que
	// asignan al usuario (para listar bodegas accesibles).
	PoliciesByUser(userID string) (map[string][]access.Policy, error)
}
