package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

var _ repository.StockLogRepository = (*StockLogRepo)(nil)

// StockLogRepo implementación del kardex sobre PostgreSQL (usable con pool o tx).
// La tabla stock_log es append-only: este adaptador no expone update ni delete.
type StockLogRepo struct {
	q Querier
}

// NewStockLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLogRepository(q Querier) *StockLogRepo {
	return &StockLogRepo{q: q}
}

// Create persiste un registro del kardex.
func (r *StockLogRepo) Create(entry *entity.StockLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_log (id, warehouse_id, product_id, stock_kind, quantity, movement, request_kind, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	requestKind := (*string)(nil)
	if entry.RequestKind != "" {
		requestKind = &entry.RequestKind
	}
	createdBy := (*string)(nil)
	if entry.CreatedBy != "" {
		createdBy = &entry.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.WarehouseID, entry.ProductID, entry.StockKind,
		entry.Quantity, entry.Movement, requestKind, entry.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock log entry: %w", err)
	}
	return nil
}

// ListByWarehouse lista el kardex de una bodega en un rango de fechas.
func (r *StockLogRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockLogEntry, error) {
	query := `
		SELECT id, warehouse_id, product_id, stock_kind, quantity, movement, request_kind, created_at, created_by
		FROM stock_log WHERE warehouse_id = $1`
	args := []any{warehouseID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	return r.list(query, args)
}

// ListByStock lista el kardex de un producto en una bodega en un rango de fechas.
func (r *StockLogRepo) ListByStock(warehouseID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLogEntry, error) {
	query := `
		SELECT id, warehouse_id, product_id, stock_kind, quantity, movement, request_kind, created_at, created_by
		FROM stock_log WHERE warehouse_id = $1 AND product_id = $2`
	args := []any{warehouseID, productID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	return r.list(query, args)
}

func (r *StockLogRepo) list(query string, args []any) ([]*entity.StockLogEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock log: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLogEntry
	for rows.Next() {
		var e entity.StockLogEntry
		var requestKind, createdBy *string
		if err := rows.Scan(&e.ID, &e.WarehouseID, &e.ProductID, &e.StockKind,
			&e.Quantity, &e.Movement, &requestKind, &e.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock log entry: %w", err)
		}
		if requestKind != nil {
			e.RequestKind = *requestKind
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
