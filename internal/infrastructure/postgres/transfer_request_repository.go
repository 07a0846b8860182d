package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

var _ repository.TransferRequestRepository = (*TransferRequestRepo)(nil)

// TransferRequestRepo implementación sobre PostgreSQL (usable con pool o tx).
// Las transiciones de estado llevan el estado esperado en el WHERE
// (compare-and-set): RowsAffected == 0 significa que otro actor ganó la
// carrera y la transición ya no aplica.
type TransferRequestRepo struct {
	q Querier
}

// NewTransferRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRequestRepository(q Querier) *TransferRequestRepo {
	return &TransferRequestRepo{q: q}
}

const transferRequestColumns = `
	id, company_id, warehouse_id, product_id, vehicle_id, request_kind, stock_kind,
	quantity, status, confirmed, comment, requested_by, approved_by, confirmed_by,
	requested_at, approved_at, confirmed_at`

// Create persiste una nueva solicitud (estado pending).
func (r *TransferRequestRepo) Create(request *entity.TransferRequest) error {
	query := `
		INSERT INTO transfer_requests (` + transferRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	vehicleID := (*string)(nil)
	if request.VehicleID != "" {
		vehicleID = &request.VehicleID
	}
	approvedBy := (*string)(nil)
	if request.ApprovedBy != "" {
		approvedBy = &request.ApprovedBy
	}
	confirmedBy := (*string)(nil)
	if request.ConfirmedBy != "" {
		confirmedBy = &request.ConfirmedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		request.ID, request.CompanyID, request.WarehouseID, request.ProductID, vehicleID,
		request.RequestKind, request.StockKind, request.Quantity, request.Status,
		request.Confirmed, request.Comment, request.RequestedBy, approvedBy, confirmedBy,
		request.RequestedAt, request.ApprovedAt, request.ConfirmedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *TransferRequestRepo) GetByID(id string) (*entity.TransferRequest, error) {
	query := `SELECT ` + transferRequestColumns + ` FROM transfer_requests WHERE id = $1`
	req, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer request: %w", err)
	}
	return req, nil
}

// ListByWarehouse lista solicitudes de una bodega; status vacío lista todas.
func (r *TransferRequestRepo) ListByWarehouse(warehouseID, status string, limit, offset int) ([]*entity.TransferRequest, error) {
	query := `SELECT ` + transferRequestColumns + ` FROM transfer_requests WHERE warehouse_id = $1`
	args := []any{warehouseID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY requested_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(query, args)
}

// ListByRequester lista las solicitudes creadas por un usuario.
func (r *TransferRequestRepo) ListByRequester(userID string, limit, offset int) ([]*entity.TransferRequest, error) {
	query := `SELECT ` + transferRequestColumns + `
		FROM transfer_requests WHERE requested_by = $1
		ORDER BY requested_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, []any{userID, limit, offset})
}

// MarkApproved aplica pending → approved con compare-and-set sobre status.
func (r *TransferRequestRepo) MarkApproved(id, approverID string, at time.Time) (bool, error) {
	query := `
		UPDATE transfer_requests
		SET status = $2, approved_by = $3, approved_at = $4
		WHERE id = $1 AND status = $5`
	cmd, err := r.q.Exec(context.Background(), query,
		id, entity.StatusApproved, approverID, at, entity.StatusPending)
	if err != nil {
		return false, fmt.Errorf("approve transfer request: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// MarkRejected aplica pending → rejected (terminal) con compare-and-set.
func (r *TransferRequestRepo) MarkRejected(id, approverID, comment string, at time.Time) (bool, error) {
	query := `
		UPDATE transfer_requests
		SET status = $2, approved_by = $3, approved_at = $4, comment = $5
		WHERE id = $1 AND status = $6`
	cmd, err := r.q.Exec(context.Background(), query,
		id, entity.StatusRejected, approverID, at, comment, entity.StatusPending)
	if err != nil {
		return false, fmt.Errorf("reject transfer request: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// MarkConfirmed aplica confirmed false → true solo con estado approved.
// El UPDATE además bloquea la fila dentro de la transacción del caller, de
// modo que dos Confirm concurrentes producen exactamente un RowsAffected=1.
func (r *TransferRequestRepo) MarkConfirmed(id, confirmerID string, at time.Time) (bool, error) {
	query := `
		UPDATE transfer_requests
		SET confirmed = true, confirmed_by = $2, confirmed_at = $3
		WHERE id = $1 AND status = $4 AND confirmed = false`
	cmd, err := r.q.Exec(context.Background(), query,
		id, confirmerID, at, entity.StatusApproved)
	if err != nil {
		return false, fmt.Errorf("confirm transfer request: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *TransferRequestRepo) scanOne(row pgx.Row) (*entity.TransferRequest, error) {
	var req entity.TransferRequest
	var vehicleID, comment, approvedBy, confirmedBy *string
	err := row.Scan(
		&req.ID, &req.CompanyID, &req.WarehouseID, &req.ProductID, &vehicleID,
		&req.RequestKind, &req.StockKind, &req.Quantity, &req.Status,
		&req.Confirmed, &comment, &req.RequestedBy, &approvedBy, &confirmedBy,
		&req.RequestedAt, &req.ApprovedAt, &req.ConfirmedAt,
	)
	if err != nil {
		return nil, err
	}
	if vehicleID != nil {
		req.VehicleID = *vehicleID
	}
	if comment != nil {
		req.Comment = *comment
	}
	if approvedBy != nil {
		req.ApprovedBy = *approvedBy
	}
	if confirmedBy != nil {
		req.ConfirmedBy = *confirmedBy
	}
	return &req, nil
}

func (r *TransferRequestRepo) list(query string, args []any) ([]*entity.TransferRequest, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfer requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransferRequest
	for rows.Next() {
		req, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}
