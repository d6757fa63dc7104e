package notify

import (
	"time"

	"github.com/shopspring/decimal"
)

// Eventos estructurados que el núcleo emite al colaborador de notificaciones.
// El transporte es externo: la entrega es best-effort y nunca afecta el estado
// del inventario (se despachan después del commit de la unidad de trabajo).

// RequisitionCreatedEvent se emite al crear una requisición de urgencia HIGH/CRITICAL.
type RequisitionCreatedEvent struct {
	RequisitionID     string
	RequisitionNumber string
	ItemID            string
	ItemName          string
	SKU               string
	Quantity          decimal.Decimal
	Urgency           string
	SalesOrderNumber  string // vacío para reposición genérica
	RequestedBy       string
	CreatedAt         time.Time
}

// ShortageResolvedEvent se emite cuando la cascada de reconciliación resuelve un faltante.
type ShortageResolvedEvent struct {
	RequirementID    string
	ItemID           string
	ItemName         string
	SKU              string
	Required         decimal.Decimal
	Available        decimal.Decimal
	SalesOrderID     string
	SalesOrderNumber string
	CustomerName     string
	ResolvedAt       time.Time
}

// LowStockBatchEvent resume un barrido de stock bajo.
type LowStockBatchEvent struct {
	ItemsChecked        int
	RequisitionsCreated int
	Numbers             []string
	RanAt               time.Time
}

// PurchaseOrderDeliveredEvent se emite tras aplicar la recepción de una orden de compra.
type PurchaseOrderDeliveredEvent struct {
	PurchaseOrderID     string
	PurchaseOrderNumber string
	ItemID              string
	ItemName            string
	SKU                 string
	ReceivedQuantity    decimal.Decimal
	NewQuantity         decimal.Decimal
	RequirementsClosed  int
	DeliveredAt         time.Time
}

// Notifier es el puerto hacia el colaborador de notificaciones.
// Las implementaciones no deben bloquear ni devolver error al núcleo.
type Notifier interface {
	RequisitionCreated(ev RequisitionCreatedEvent)
	ShortageResolved(ev ShortageResolvedEvent)
	LowStockBatch(ev LowStockBatchEvent)
	PurchaseOrderDelivered(ev PurchaseOrderDeliveredEvent)
}

// NopNotifier descarta todos los eventos (tests y arranques sin transporte).
type NopNotifier struct{}

func (NopNotifier) RequisitionCreated(RequisitionCreatedEvent)         {}
func (NopNotifier) ShortageResolved(ShortageResolvedEvent)             {}
func (NopNotifier) LowStockBatch(LowStockBatchEvent)                   {}
func (NopNotifier) PurchaseOrderDelivered(PurchaseOrderDeliveredEvent) {}
