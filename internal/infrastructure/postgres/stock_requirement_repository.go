package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockRequirementRepository = (*StockRequirementRepo)(nil)

// StockRequirementRepo implementación de StockRequirementRepository sobre PostgreSQL.
type StockRequirementRepo struct {
	q Querier
}

// NewStockRequirementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRequirementRepository(q Querier) *StockRequirementRepo {
	return &StockRequirementRepo{q: q}
}

const requirementColumns = `id, order_id, line_id, item_id, required, available, shortage, status, created_at, updated_at`

// Create persiste un requerimiento.
func (r *StockRequirementRepo) Create(ctx context.Context, req *entity.StockRequirement) error {
	query := `
		INSERT INTO stock_requirements (` + requirementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.OrderID, req.LineID, req.ItemID,
		req.Required, req.Available, req.Shortage, req.Status,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock requirement: %w", err)
	}
	return nil
}

// GetByID obtiene un requerimiento por ID. (nil, nil) si no existe.
func (r *StockRequirementRepo) GetByID(ctx context.Context, id string) (*entity.StockRequirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM stock_requirements WHERE id = $1`
	var req entity.StockRequirement
	err := r.q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.OrderID, &req.LineID, &req.ItemID,
		&req.Required, &req.Available, &req.Shortage, &req.Status,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock requirement: %w", err)
	}
	return &req, nil
}

// ListByOrder lista los requerimientos de un pedido.
func (r *StockRequirementRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.StockRequirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM stock_requirements WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list requirements by order: %w", err)
	}
	defer rows.Close()
	return r.scanRows(rows)
}

// ListOpenByItem devuelve los requerimientos no FULFILLED del ítem cuyos pedidos
// siguen PENDING, bloqueados para update. Lo usa la cascada de reconciliación
// dentro de la transacción de la recepción.
func (r *StockRequirementRepo) ListOpenByItem(ctx context.Context, itemID string) ([]*entity.StockRequirement, error) {
	query := `
		SELECT r.id, r.order_id, r.line_id, r.item_id, r.required, r.available, r.shortage, r.status, r.created_at, r.updated_at
		FROM stock_requirements r
		JOIN sales_orders o ON o.id = r.order_id
		WHERE r.item_id = $1 AND r.status <> $2 AND o.status = $3
		ORDER BY r.created_at
		FOR UPDATE OF r`
	rows, err := r.q.Query(ctx, query, itemID, entity.RequirementFulfilled, entity.SalesOrderPending)
	if err != nil {
		return nil, fmt.Errorf("list open requirements: %w", err)
	}
	defer rows.Close()
	return r.scanRows(rows)
}

// Update escribe el snapshot completo del requerimiento.
func (r *StockRequirementRepo) Update(ctx context.Context, req *entity.StockRequirement) error {
	query := `
		UPDATE stock_requirements
		SET required = $2, available = $3, shortage = $4, status = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		req.ID, req.Required, req.Available, req.Shortage, req.Status, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock requirement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia solo el estado.
func (r *StockRequirementRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_requirements SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update requirement status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un requerimiento (línea retirada del pedido).
func (r *StockRequirementRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM stock_requirements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock requirement: %w", err)
	}
	return nil
}

// DeleteByOrder elimina los requerimientos del pedido (cancelación).
func (r *StockRequirementRepo) DeleteByOrder(ctx context.Context, orderID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM stock_requirements WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete requirements by order: %w", err)
	}
	return nil
}

func (r *StockRequirementRepo) scanRows(rows pgx.Rows) ([]*entity.StockRequirement, error) {
	var list []*entity.StockRequirement
	for rows.Next() {
		var req entity.StockRequirement
		if err := rows.Scan(
			&req.ID, &req.OrderID, &req.LineID, &req.ItemID,
			&req.Required, &req.Available, &req.Shortage, &req.Status,
			&req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock requirement: %w", err)
		}
		list = append(list, &req)
	}
	return list, rows.Err()
}
