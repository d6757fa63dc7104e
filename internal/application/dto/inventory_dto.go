package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyMovementRequest movimiento manual (ajuste) sobre el libro.
type ApplyMovementRequest struct {
	ItemID        string          `json:"item_id"`
	Direction     string          `json:"direction"` // IN | OUT
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceCode string          `json:"reference_code"`
	Notes         string          `json:"notes"`
}

// MovementResponse asiento del libro en respuestas (kardex).
type MovementResponse struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	Direction        string          `json:"direction"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReferenceType    string          `json:"reference_type"`
	ReferenceCode    string          `json:"reference_code,omitempty"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	CreatedAt        time.Time       `json:"created_at"`
	CreatedBy        string          `json:"created_by,omitempty"`
}

// ReceiveGoodsRequest recepción de una orden de compra.
type ReceiveGoodsRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// ReceiveGoodsResponse resultado de la recepción.
type ReceiveGoodsResponse struct {
	PurchaseOrderID      string          `json:"purchase_order_id"`
	ItemID               string          `json:"item_id"`
	PreviousQuantity     decimal.Decimal `json:"previous_quantity"`
	NewQuantity          decimal.Decimal `json:"new_quantity"`
	RequirementsResolved int             `json:"requirements_resolved"`
}

// LedgerCheckResponse comparación libro vs. cantidad cacheada de un ítem.
type LedgerCheckResponse struct {
	ItemID     string          `json:"item_id"`
	FromLedger decimal.Decimal `json:"from_ledger"`
	Cached     decimal.Decimal `json:"cached"`
	Consistent bool            `json:"consistent"`
}

// LowStockSweepResponse resumen del barrido de stock bajo.
type LowStockSweepResponse struct {
	ItemsChecked        int      `json:"items_checked"`
	RequisitionsCreated int      `json:"requisitions_created"`
	Numbers             []string `json:"numbers,omitempty"`
}
