package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la fila de stock; si no existe devuelve una fila en cero
// (la fila real se crea con el primer movimiento positivo).
func (r *StockRepo) Get(warehouseID, productID, stockKind string) (*entity.Stock, error) {
	query := `
		SELECT warehouse_id, product_id, stock_kind, quantity, updated_at
		FROM stock WHERE warehouse_id = $1 AND product_id = $2 AND stock_kind = $3`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, warehouseID, productID, stockKind).Scan(
		&s.WarehouseID, &s.ProductID, &s.StockKind, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{WarehouseID: warehouseID, ProductID: productID, StockKind: stockKind}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
// Si la fila no existe la crea en cero y vuelve a bloquear: FOR UPDATE
// sobre cero filas no bloquea nada y dos primeros movimientos
// concurrentes se pisarían la cantidad entre sí.
func (r *StockRepo) GetForUpdate(warehouseID, productID, stockKind string) (*entity.Stock, error) {
	query := `
		SELECT warehouse_id, product_id, stock_kind, quantity, updated_at
		FROM stock WHERE warehouse_id = $1 AND product_id = $2 AND stock_kind = $3
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, warehouseID, productID, stockKind).Scan(
		&s.WarehouseID, &s.ProductID, &s.StockKind, &s.Quantity, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		insert := `
			INSERT INTO stock (warehouse_id, product_id, stock_kind, quantity, updated_at)
			VALUES ($1, $2, $3, 0, now())
			ON CONFLICT (warehouse_id, product_id, stock_kind) DO NOTHING`
		if _, err := r.q.Exec(context.Background(), insert, warehouseID, productID, stockKind); err != nil {
			return nil, fmt.Errorf("init stock row: %w", err)
		}
		err = r.q.QueryRow(context.Background(), query, warehouseID, productID, stockKind).Scan(
			&s.WarehouseID, &s.ProductID, &s.StockKind, &s.Quantity, &s.UpdatedAt,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por bodega, producto y clase).
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (warehouse_id, product_id, stock_kind, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (warehouse_id, product_id, stock_kind)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		stock.WarehouseID, stock.ProductID, stock.StockKind, stock.Quantity, stock.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByWarehouse lista las filas de stock de una bodega.
func (r *StockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Stock, error) {
	query := `
		SELECT warehouse_id, product_id, stock_kind, quantity, updated_at
		FROM stock WHERE warehouse_id = $1
		ORDER BY product_id, stock_kind LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.WarehouseID, &s.ProductID, &s.StockKind, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
