package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una requisición de compra.
const (
	RequisitionPending   = "PENDING"
	RequisitionApproved  = "APPROVED"
	RequisitionRejected  = "REJECTED"  // terminal
	RequisitionConverted = "CONVERTED" // terminal, ya generó orden de compra
)

// Niveles de urgencia de una requisición.
const (
	UrgencyLow      = "LOW"
	UrgencyMedium   = "MEDIUM"
	UrgencyHigh     = "HIGH"
	UrgencyCritical = "CRITICAL"
)

// Orígenes de una requisición.
const (
	RequisitionSourceManual = "MANUAL"
	RequisitionSourceAuto   = "AUTO" // barrido de stock bajo
)

// PurchaseRequisition es la intención de compra generada desde un faltante.
// Invariante: a lo sumo una requisición PENDING/APPROVED por par (ítem, pedido),
// incluyendo el par (ítem, nil) para reposición genérica por stock bajo.
type PurchaseRequisition struct {
	ID              string
	Number          string // REQ-<año>-<consecutivo>
	ItemID          string
	SalesOrderID    *string // nil = reposición genérica
	Quantity        decimal.Decimal
	Urgency         string
	Status          string
	Source          string
	Reason          string
	RequestedBy     string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason string
	PurchaseOrderID *string // set al convertir
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Active indica si la requisición cuenta para la prevención de duplicados.
func (r *PurchaseRequisition) Active() bool {
	return r.Status == RequisitionPending || r.Status == RequisitionApproved
}
