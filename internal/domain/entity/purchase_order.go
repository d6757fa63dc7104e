package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	PurchaseOrderPending   = "PENDING"
	PurchaseOrderDelivered = "DELIVERED" // terminal: ya generó el movimiento IN
	PurchaseOrderCancelled = "CANCELLED"
)

// PurchaseOrder es la orden de compra, creada directamente o por conversión
// de una requisición aprobada. Su entrega dispara la recepción de mercancía.
type PurchaseOrder struct {
	ID            string
	Number        string // OC-<año>-<consecutivo>
	SupplierID    string
	ItemID        string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Status        string
	RequisitionID *string // requisición de origen, si aplica
	ExpectedDate  *time.Time
	DeliveredAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
}
