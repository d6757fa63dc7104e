package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del libro de movimientos.
// Solo inserta y consulta: los asientos son inmutables.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// SumByItem devuelve la suma con signo de todos los movimientos del ítem
	// (reconstrucción del libro, para auditoría contra la cantidad cacheada).
	SumByItem(ctx context.Context, itemID string) (decimal.Decimal, error)
}
