package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateRequisitionRequest genera una requisición desde el faltante de un requerimiento.
type GenerateRequisitionRequest struct {
	RequirementID string `json:"requirement_id"`
	Reason        string `json:"reason"`
}

// RejectRequisitionRequest motivo de rechazo (obligatorio).
type RejectRequisitionRequest struct {
	Reason string `json:"reason"`
}

// ConvertRequisitionRequest conversión a orden de compra.
type ConvertRequisitionRequest struct {
	SupplierID   string           `json:"supplier_id"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	ExpectedDate *time.Time       `json:"expected_date"`
}

// RequisitionResponse requisición en respuestas.
type RequisitionResponse struct {
	ID              string          `json:"id"`
	Number          string          `json:"number"`
	ItemID          string          `json:"item_id"`
	SalesOrderID    *string         `json:"sales_order_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Urgency         string          `json:"urgency"`
	Status          string          `json:"status"`
	Source          string          `json:"source"`
	Reason          string          `json:"reason,omitempty"`
	RequestedBy     string          `json:"requested_by"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	PurchaseOrderID *string         `json:"purchase_order_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PurchaseOrderResponse orden de compra en respuestas.
type PurchaseOrderResponse struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	SupplierID    string          `json:"supplier_id"`
	ItemID        string          `json:"item_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Status        string          `json:"status"`
	RequisitionID *string         `json:"requisition_id,omitempty"`
	ExpectedDate  *time.Time      `json:"expected_date,omitempty"`
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
