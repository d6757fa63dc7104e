package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un requerimiento de stock.
const (
	RequirementSufficient = "SUFFICIENT" // disponible cubre lo requerido
	RequirementShortage   = "SHORTAGE"   // faltante dentro del nivel de reorden
	RequirementCritical   = "CRITICAL"   // faltante por encima del nivel de reorden
	RequirementFulfilled  = "FULFILLED"  // pedido despachado
)

// StockRequirement es el snapshot requerido-vs-disponible de una línea de pedido.
// Shortage = max(0, Required - Available). Se recalcula cuando cambian las líneas
// del pedido y cuando la cascada de reconciliación procesa una recepción.
type StockRequirement struct {
	ID        string
	OrderID   string
	LineID    string
	ItemID    string
	Required  decimal.Decimal
	Available decimal.Decimal // copiado de la cantidad en mano del ítem
	Shortage  decimal.Decimal
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open indica si el requerimiento sigue abierto (la cascada solo toca abiertos).
func (r *StockRequirement) Open() bool {
	return r.Status != RequirementFulfilled
}

// Resolved indica si el disponible ya cubre lo requerido.
func (r *StockRequirement) Resolved() bool {
	return r.Available.GreaterThanOrEqual(r.Required)
}
