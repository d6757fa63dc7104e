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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, number, supplier_id, item_id, quantity, unit_price, status, requisition_id, expected_date, delivered_at, created_at, updated_at, created_by`

// Create persiste una orden de compra.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + poColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.Number, po.SupplierID, po.ItemID, po.Quantity, po.UnitPrice,
		po.Status, po.RequisitionID, po.ExpectedDate, po.DeliveredAt,
		po.CreatedAt, po.UpdatedAt, po.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID. (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get purchase order")
}

// GetForUpdate obtiene la orden bloqueando la fila. La recepción serializa aquí
// el chequeo de estado DELIVERED contra recepciones concurrentes.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get purchase order for update")
}

// List lista órdenes, opcionalmente filtradas por estado.
func (r *PurchaseOrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders`
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
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		if err := rows.Scan(
			&po.ID, &po.Number, &po.SupplierID, &po.ItemID, &po.Quantity, &po.UnitPrice,
			&po.Status, &po.RequisitionID, &po.ExpectedDate, &po.DeliveredAt,
			&po.CreatedAt, &po.UpdatedAt, &po.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &po)
	}
	return list, rows.Err()
}

// Update escribe el estado completo de la orden.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET quantity = $2, unit_price = $3, status = $4, expected_date = $5,
		    delivered_at = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		po.ID, po.Quantity, po.UnitPrice, po.Status, po.ExpectedDate,
		po.DeliveredAt, po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseOrderRepo) scanOne(row pgx.Row, op string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := row.Scan(
		&po.ID, &po.Number, &po.SupplierID, &po.ItemID, &po.Quantity, &po.UnitPrice,
		&po.Status, &po.RequisitionID, &po.ExpectedDate, &po.DeliveredAt,
		&po.CreatedAt, &po.UpdatedAt, &po.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &po, nil
}
