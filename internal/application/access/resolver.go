// Package access expone el resolutor de permisos por bodega como caso de uso.
// La lógica pura de máscaras vive en internal/domain/access; aquí se consulta
// la membresía y se aplica la reducción por mínimo.
package access

import (
	"context"

	"github.com/jhoicas/Bodegas-api/internal/domain"
	domaccess "github.com/jhoicas/Bodegas-api/internal/domain/access"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// Resolver calcula la capacidad efectiva de un usuario sobre una bodega a
// partir de sus membresías de grupos. Las aristas son read-mostly y se leen
// fuera de cualquier transacción.
type Resolver struct {
	groupRepo     repository.WarehouseGroupRepository
	warehouseRepo repository.WarehouseRepository
}

// NewResolver construye el resolutor.
func NewResolver(groupRepo repository.WarehouseGroupRepository, warehouseRepo repository.WarehouseRepository) *Resolver {
	return &Resolver{groupRepo: groupRepo, warehouseRepo: warehouseRepo}
}

// Resolve devuelve la máscara efectiva del usuario sobre la bodega: el mínimo
// numérico de las políticas de los grupos que contienen la bodega Y asignan
// al usuario. Sin grupos coincidentes devuelve 0 (todo denegado).
func (r *Resolver) Resolve(ctx context.Context, userID, warehouseID string) (domaccess.Capability, error) {
	if userID == "" || warehouseID == "" {
		return domaccess.CapNone, domain.ErrInvalidInput
	}
	warehouse, err := r.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return domaccess.CapNone, err
	}
	if warehouse == nil {
		return domaccess.CapNone, domain.ErrNotFound
	}
	policies, err := r.groupRepo.PoliciesForUserWarehouse(userID, warehouseID)
	if err != nil {
		return domaccess.CapNone, err
	}
	return domaccess.EffectiveMask(policies), nil
}

// Authorize devuelve nil si la máscara efectiva incluye el bit de la
// operación; domain.ErrForbidden en caso contrario (incluido el override de
// una membresía deny).
func (r *Resolver) Authorize(ctx context.Context, userID, warehouseID string, op domaccess.Operation) error {
	mask, err := r.Resolve(ctx, userID, warehouseID)
	if err != nil {
		return err
	}
	if !mask.Allows(op) {
		return domain.ErrForbidden
	}
	return nil
}

// AccessibleWarehouse es una bodega visible para un usuario junto con su
// máscara efectiva.
type AccessibleWarehouse struct {
	Warehouse *entity.Warehouse
	Mask      domaccess.Capability
}

// ListAccessible devuelve las bodegas sobre las que el usuario tiene al menos
// lectura: la misma reducción por mínimo, corrida por bodega y filtrada al
// bit Read.
func (r *Resolver) ListAccessible(ctx context.Context, userID string) ([]AccessibleWarehouse, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	byWarehouse, err := r.groupRepo.PoliciesByUser(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(byWarehouse))
	masks := make(map[string]domaccess.Capability, len(byWarehouse))
	for warehouseID, policies := range byWarehouse {
		mask := domaccess.EffectiveMask(policies)
		if !mask.Allows(domaccess.OpRead) {
			continue
		}
		ids = append(ids, warehouseID)
		masks[warehouseID] = mask
	}
	if len(ids) == 0 {
		return []AccessibleWarehouse{}, nil
	}
	warehouses, err := r.warehouseRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]AccessibleWarehouse, 0, len(warehouses))
	for _, w := range warehouses {
		out = append(out, AccessibleWarehouse{Warehouse: w, Mask: masks[w.ID]})
	}
	return out, nil
}
