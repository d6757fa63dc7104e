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

var _ repository.PurchaseRequisitionRepository = (*PurchaseRequisitionRepo)(nil)

// PurchaseRequisitionRepo implementación de PurchaseRequisitionRepository sobre PostgreSQL.
type PurchaseRequisitionRepo struct {
	q Querier
}

// NewPurchaseRequisitionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRequisitionRepository(q Querier) *PurchaseRequisitionRepo {
	return &PurchaseRequisitionRepo{q: q}
}

const requisitionColumns = `id, number, item_id, sales_order_id, quantity, urgency, status, source, reason, requested_by, approved_by, approved_at, rejection_reason, purchase_order_id, created_at, updated_at`

// Create persiste una requisición.
func (r *PurchaseRequisitionRepo) Create(ctx context.Context, pr *entity.PurchaseRequisition) error {
	query := `
		INSERT INTO purchase_requisitions (` + requisitionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		pr.ID, pr.Number, pr.ItemID, pr.SalesOrderID, pr.Quantity,
		pr.Urgency, pr.Status, pr.Source, pr.Reason, pr.RequestedBy,
		pr.ApprovedBy, pr.ApprovedAt, pr.RejectionReason, pr.PurchaseOrderID,
		pr.CreatedAt, pr.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return r.duplicateError(ctx, pr.ItemID, pr.SalesOrderID)
		}
		return fmt.Errorf("create requisition: %w", err)
	}
	return nil
}

// duplicateError recupera la requisición activa que disparó la violación de unicidad
// para devolver su número al caller. Si la relectura falla (p. ej. la tx quedó
// abortada) degrada al centinela sin número.
func (r *PurchaseRequisitionRepo) duplicateError(ctx context.Context, itemID string, salesOrderID *string) error {
	query := `SELECT ` + requisitionColumns + `
		FROM purchase_requisitions
		WHERE item_id = $1 AND status IN ($2, $3)`
	args := []any{itemID, entity.RequisitionPending, entity.RequisitionApproved}
	if salesOrderID != nil {
		query += ` AND sales_order_id = $4`
		args = append(args, *salesOrderID)
	} else {
		query += ` AND sales_order_id IS NULL`
	}
	query += ` LIMIT 1`
	existing, err := r.scanOne(r.q.QueryRow(ctx, query, args...), "find duplicate requisition")
	if err != nil || existing == nil {
		return domain.ErrDuplicateRequisition
	}
	return &domain.DuplicateRequisitionError{ExistingID: existing.ID, ExistingNumber: existing.Number}
}

// GetByID obtiene una requisición por ID. (nil, nil) si no existe.
func (r *PurchaseRequisitionRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseRequisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM purchase_requisitions WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get requisition")
}

// GetForUpdate obtiene la requisición bloqueando la fila (transiciones de estado).
func (r *PurchaseRequisitionRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM purchase_requisitions WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get requisition for update")
}

// FindActiveForUpdate busca la requisición PENDING/APPROVED del par (ítem, pedido),
// bloqueando las filas coincidentes. salesOrderID nil busca el par genérico
// (reposición por stock bajo). Debe correr en la misma tx que el insert.
func (r *PurchaseRequisitionRepo) FindActiveForUpdate(ctx context.Context, itemID string, salesOrderID *string) (*entity.PurchaseRequisition, error) {
	query := `SELECT ` + requisitionColumns + `
		FROM purchase_requisitions
		WHERE item_id = $1 AND status IN ($2, $3)`
	args := []any{itemID, entity.RequisitionPending, entity.RequisitionApproved}
	if salesOrderID != nil {
		query += ` AND sales_order_id = $4`
		args = append(args, *salesOrderID)
	} else {
		query += ` AND sales_order_id IS NULL`
	}
	query += ` LIMIT 1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, args...), "find active requisition")
}

// List lista requisiciones con filtros opcionales por estado y urgencia.
func (r *PurchaseRequisitionRepo) List(ctx context.Context, status, urgency string, limit, offset int) ([]*entity.PurchaseRequisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM purchase_requisitions WHERE 1=1`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	if urgency != "" {
		query += fmt.Sprintf(" AND urgency = $%d", pos)
		args = append(args, urgency)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseRequisition
	for rows.Next() {
		pr, err := scanRequisition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan requisition: %w", err)
		}
		list = append(list, pr)
	}
	return list, rows.Err()
}

// Update escribe el estado completo de la requisición.
func (r *PurchaseRequisitionRepo) Update(ctx context.Context, pr *entity.PurchaseRequisition) error {
	query := `
		UPDATE purchase_requisitions
		SET quantity = $2, urgency = $3, status = $4, reason = $5,
		    approved_by = $6, approved_at = $7, rejection_reason = $8,
		    purchase_order_id = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		pr.ID, pr.Quantity, pr.Urgency, pr.Status, pr.Reason,
		pr.ApprovedBy, pr.ApprovedAt, pr.RejectionReason, pr.PurchaseOrderID, pr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update requisition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseRequisitionRepo) scanOne(row pgx.Row, op string) (*entity.PurchaseRequisition, error) {
	pr, err := scanRequisition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pr, nil
}

func scanRequisition(row pgx.Row) (*entity.PurchaseRequisition, error) {
	var pr entity.PurchaseRequisition
	err := row.Scan(
		&pr.ID, &pr.Number, &pr.ItemID, &pr.SalesOrderID, &pr.Quantity,
		&pr.Urgency, &pr.Status, &pr.Source, &pr.Reason, &pr.RequestedBy,
		&pr.ApprovedBy, &pr.ApprovedAt, &pr.RejectionReason, &pr.PurchaseOrderID,
		&pr.CreatedAt, &pr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pr, nil
}
