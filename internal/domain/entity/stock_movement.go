package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento de stock.
const (
	MovementIN  = "IN"  // entrada
	MovementOUT = "OUT" // salida
)

// Tipos de referencia de un movimiento.
const (
	ReferenceReceipt    = "RECEIPT"    // recepción de orden de compra
	ReferenceIssue      = "ISSUE"      // despacho de pedido de venta
	ReferenceAdjustment = "ADJUSTMENT" // ajuste manual
)

// StockMovement es un asiento inmutable del libro de movimientos de un ítem.
// Nunca se actualiza ni se borra; las correcciones son movimientos compensatorios.
// Invariante: NewQuantity = PreviousQuantity ± Quantity según la dirección.
type StockMovement struct {
	ID               string
	ItemID           string
	Direction        string          // IN | OUT
	Quantity         decimal.Decimal // siempre > 0
	ReferenceType    string          // RECEIPT | ISSUE | ADJUSTMENT
	ReferenceID      string
	ReferenceCode    string
	PreviousQuantity decimal.Decimal // snapshot al momento de escribir
	NewQuantity      decimal.Decimal
	CreatedAt        time.Time
	CreatedBy        string
}

// Signed devuelve la cantidad con signo según la dirección del movimiento.
func (m *StockMovement) Signed() decimal.Decimal {
	if m.Direction == MovementOUT {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
