package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/access"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

var _ repository.WarehouseGroupRepository = (*WarehouseGroupRepo)(nil)

// WarehouseGroupRepo implementación del puerto WarehouseGroupRepository sobre
// PostgreSQL. Las aristas viven en warehouse_group_membership y
// store_admin_assignment con FK ON DELETE CASCADE hacia grupos y bodegas.
type WarehouseGroupRepo struct {
	q Querier
}

// NewWarehouseGroupRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseGroupRepository(q Querier) *WarehouseGroupRepo {
	return &WarehouseGroupRepo{q: q}
}

// Create persiste un nuevo grupo.
func (r *WarehouseGroupRepo) Create(group *entity.WarehouseGroup) error {
	query := `
		INSERT INTO warehouse_groups (id, company_id, name, access_policy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		group.ID, group.CompanyID, group.Name, string(group.AccessPolicy),
		group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert warehouse group: %w", err)
	}
	return nil
}

// GetByID obtiene un grupo por ID.
func (r *WarehouseGroupRepo) GetByID(id string) (*entity.WarehouseGroup, error) {
	query := `
		SELECT id, company_id, name, access_policy, created_at, updated_at
		FROM warehouse_groups WHERE id = $1`
	var g entity.WarehouseGroup
	var policy string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&g.ID, &g.CompanyID, &g.Name, &policy, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse group: %w", err)
	}
	g.AccessPolicy = access.Policy(policy)
	return &g, nil
}

// Update actualiza nombre y política de un grupo.
func (r *WarehouseGroupRepo) Update(group *entity.WarehouseGroup) error {
	query := `
		UPDATE warehouse_groups SET name = $2, access_policy = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		group.ID, group.Name, string(group.AccessPolicy), group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update warehouse group: %w", err)
	}
	return nil
}

// ListByCompany lista grupos por empresa con paginación.
func (r *WarehouseGroupRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.WarehouseGroup, error) {
	query := `
		SELECT id, company_id, name, access_policy, created_at, updated_at
		FROM warehouse_groups WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouse groups: %w", err)
	}
	defer rows.Close()
	var list []*entity.WarehouseGroup
	for rows.Next() {
		var g entity.WarehouseGroup
		var policy string
		if err := rows.Scan(&g.ID, &g.CompanyID, &g.Name, &policy, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse group: %w", err)
		}
		g.AccessPolicy = access.Policy(policy)
		list = append(list, &g)
	}
	return list, rows.Err()
}

// Delete elimina un grupo; las aristas cascadean por FK.
func (r *WarehouseGroupRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM warehouse_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete warehouse group: %w", err)
	}
	return nil
}

// AddWarehouse agrega la arista grupo ↔ bodega (idempotencia vía unique).
func (r *WarehouseGroupRepo) AddWarehouse(groupID, warehouseID string) error {
	query := `
		INSERT INTO warehouse_group_membership (group_id, warehouse_id, created_at)
		VALUES ($1, $2, now())`
	_, err := r.q.Exec(context.Background(), query, groupID, warehouseID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("add warehouse to group: %w", err)
	}
	return nil
}

// RemoveWarehouse quita la arista grupo ↔ bodega.
func (r *WarehouseGroupRepo) RemoveWarehouse(groupID, warehouseID string) error {
	query := `DELETE FROM warehouse_group_membership WHERE group_id = $1 AND warehouse_id = $2`
	_, err := r.q.Exec(context.Background(), query, groupID, warehouseID)
	if err != nil {
		return fmt.Errorf("remove warehouse from group: %w", err)
	}
	return nil
}

// AddAdmin agrega la arista grupo ↔ usuario administrador.
func (r *WarehouseGroupRepo) AddAdmin(groupID, userID string) error {
	query := `
		INSERT INTO store_admin_assignment (group_id, user_id, created_at)
		VALUES ($1, $2, now())`
	_, err := r.q.Exec(context.Background(), query, groupID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("add admin to group: %w", err)
	}
	return nil
}

// RemoveAdmin quita la arista grupo ↔ usuario.
func (r *WarehouseGroupRepo) RemoveAdmin(groupID, userID string) error {
	query := `DELETE FROM store_admin_assignment WHERE group_id = $1 AND user_id = $2`
	_, err := r.q.Exec(context.Background(), query, groupID, userID)
	if err != nil {
		return fmt.Errorf("remove admin from group: %w", err)
	}
	return nil
}

// PoliciesForUserWarehouse devuelve las políticas de los grupos que a la vez
// contienen la bodega (membresía) y asignan al usuario (administración).
// Lista vacía = el usuario no tiene relación con la bodega.
func (r *WarehouseGroupRepo) PoliciesForUserWarehouse(userID, warehouseID string) ([]access.Policy, error) {
	query := `
		SELECT wg.access_policy
		FROM warehouse_groups wg
		JOIN warehouse_group_membership m ON m.group_id = wg.id
		JOIN store_admin_assignment a ON a.group_id = wg.id
		WHERE m.warehouse_id = $1 AND a.user_id = $2`
	rows, err := r.q.Query(context.Background(), query, warehouseID, userID)
	if err != nil {
		return nil, fmt.Errorf("policies for user and warehouse: %w", err)
	}
	defer rows.Close()
	var policies []access.Policy
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		policies = append(policies, access.Policy(p))
	}
	return policies, rows.Err()
}

// PoliciesByUser devuelve, por bodega, las políticas de los grupos que
// asignan al usuario. La reducción por mínimo se hace en el dominio
// (access.EffectiveMask), no en SQL.
func (r *WarehouseGroupRepo) PoliciesByUser(userID string) (map[string][]access.Policy, error) {
	query := `
		SELECT m.warehouse_id, wg.access_policy
		FROM warehouse_groups wg
		JOIN warehouse_group_membership m ON m.group_id = wg.id
		JOIN store_admin_assignment a ON a.group_id = wg.id
		WHERE a.user_id = $1`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("policies by user: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]access.Policy)
	for rows.Next() {
		var warehouseID, p string
		if err := rows.Scan(&warehouseID, &p); err != nil {
			return nil, fmt.Errorf("scan policy by user: %w", err)
		}
		out[warehouseID] = append(out[warehouseID], access.Policy(p))
	}
	return out, rows.Err()
}
