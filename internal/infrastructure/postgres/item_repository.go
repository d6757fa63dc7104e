package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, sku, name, description, unit_measure, price, reorder_level, quantity, active, created_at, updated_at`

// Create persiste un ítem nuevo.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.SKU, item.Name, item.Description, item.UnitMeasure,
		item.Price, item.ReorderLevel, item.Quantity, item.Active,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID. Devuelve (nil, nil) si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get item")
}

// GetBySKU obtiene un ítem por su código único.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE sku = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, sku), "get item by sku")
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE).
// Debe invocarse dentro de una transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get item for update")
}

// List lista ítems con paginación, opcionalmente solo activos.
func (r *ItemRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	if onlyActive {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY sku LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return r.scanRows(rows)
}

// Update actualiza los datos de catálogo del ítem (no la cantidad).
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items
		SET name = $2, description = $3, unit_measure = $4, price = $5,
		    reorder_level = $6, active = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.UnitMeasure,
		item.Price, item.ReorderLevel, item.Active, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity escribe la cantidad en mano cacheada. Solo el ledger la invoca,
// dentro de la misma tx que inserta el movimiento.
func (r *ItemRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	query := `UPDATE items SET quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListAtOrBelowReorder devuelve los ítems activos con cantidad <= nivel de reorden.
func (r *ItemRepo) ListAtOrBelowReorder(ctx context.Context) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE active = true AND quantity <= reorder_level
		ORDER BY sku`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items at reorder: %w", err)
	}
	defer rows.Close()
	return r.scanRows(rows)
}

func (r *ItemRepo) scanOne(row pgx.Row, op string) (*entity.Item, error) {
	var i entity.Item
	err := row.Scan(
		&i.ID, &i.SKU, &i.Name, &i.Description, &i.UnitMeasure,
		&i.Price, &i.ReorderLevel, &i.Quantity, &i.Active,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &i, nil
}

func (r *ItemRepo) scanRows(rows pgx.Rows) ([]*entity.Item, error) {
	var list []*entity.Item
	for rows.Next() {
		var i entity.Item
		if err := rows.Scan(
			&i.ID, &i.SKU, &i.Name, &i.Description, &i.UnitMeasure,
			&i.Price, &i.ReorderLevel, &i.Quantity, &i.Active,
			&i.CreatedAt, &i.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}
