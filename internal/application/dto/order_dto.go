package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de un pedido de venta.
type OrderLineRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateOrderRequest alta de pedido de venta.
type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name"`
	PromisedDate *time.Time         `json:"promised_date"`
	Notes        string             `json:"notes"`
	Lines        []OrderLineRequest `json:"lines"`
}

// OrderLineResponse línea en respuestas.
type OrderLineResponse struct {
	ID       string          `json:"id"`
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// OrderResponse pedido de venta en respuestas.
type OrderResponse struct {
	ID           string              `json:"id"`
	OrderNumber  string              `json:"order_number"`
	CustomerName string              `json:"customer_name"`
	Status       string              `json:"status"`
	PromisedDate *time.Time          `json:"promised_date,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	Lines        []OrderLineResponse `json:"lines"`
	CreatedAt    time.Time           `json:"created_at"`
}

// RequirementResponse requerimiento de stock en respuestas.
type RequirementResponse struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ItemID    string          `json:"item_id"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
	Shortage  decimal.Decimal `json:"shortage"`
	Status    string          `json:"status"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IssuedMovement resumen de un movimiento OUT aplicado al despachar.
type IssuedMovement struct {
	MovementID       string          `json:"movement_id"`
	ItemID           string          `json:"item_id"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
}

// IssueGoodsResponse resultado del despacho de un pedido.
type IssueGoodsResponse struct {
	OrderID   string           `json:"order_id"`
	Status    string           `json:"status"`
	Movements []IssuedMovement `json:"movements"`
}
