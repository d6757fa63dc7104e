package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del catálogo de inventario.
// Quantity es la cantidad en mano cacheada: se deriva del libro de movimientos
// y solo el registrador de movimientos la escribe (misma transacción que el movimiento).
// ReorderLevel es el punto de reorden y a la vez el umbral de severidad de faltantes.
type Item struct {
	ID           string
	SKU          string // código único
	Name         string
	Description  string
	UnitMeasure  string
	Price        decimal.Decimal // precio de catálogo (default al convertir requisiciones)
	ReorderLevel decimal.Decimal
	Quantity     decimal.Decimal // cantidad en mano cacheada, solo lectura fuera del ledger
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
