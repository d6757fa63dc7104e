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

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación de SalesOrderRepository sobre PostgreSQL.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

const orderColumns = `id, order_number, customer_name, status, promised_date, notes, created_at, updated_at, created_by`

// Create persiste el pedido y sus líneas.
func (r *SalesOrderRepo) Create(ctx context.Context, order *entity.SalesOrder) error {
	query := `
		INSERT INTO sales_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.OrderNumber, order.CustomerName, order.Status,
		order.PromisedDate, order.Notes, order.CreatedAt, order.UpdatedAt, order.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create sales order: %w", err)
	}
	for i := range order.Lines {
		l := &order.Lines[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO sales_order_lines (id, order_id, item_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			l.ID, l.OrderID, l.ItemID, l.Quantity,
		)
		if err != nil {
			return fmt.Errorf("create order line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve el pedido con sus líneas. (nil, nil) si no existe.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM sales_orders WHERE id = $1`
	return r.getOne(ctx, query, id, "get sales order")
}

// GetForUpdate devuelve el pedido con sus líneas, bloqueando la fila del pedido.
func (r *SalesOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM sales_orders WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id, "get sales order for update")
}

func (r *SalesOrderRepo) getOne(ctx context.Context, query, id, op string) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.Status,
		&o.PromisedDate, &o.Notes, &o.CreatedAt, &o.UpdatedAt, &o.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	lines, err := r.loadLines(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *SalesOrderRepo) loadLines(ctx context.Context, orderID string) ([]entity.SalesOrderLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, item_id, quantity
		FROM sales_order_lines WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.SalesOrderLine
	for rows.Next() {
		var l entity.SalesOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// List lista pedidos sin líneas (cabeceras), opcionalmente filtrados por estado.
func (r *SalesOrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.SalesOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM sales_orders`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrder
	for rows.Next() {
		var o entity.SalesOrder
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerName, &o.Status,
			&o.PromisedDate, &o.Notes, &o.CreatedAt, &o.UpdatedAt, &o.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado del pedido.
func (r *SalesOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales_orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
