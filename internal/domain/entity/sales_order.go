package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido de venta.
const (
	SalesOrderPending   = "PENDING"
	SalesOrderCompleted = "COMPLETED" // mercancía despachada
	SalesOrderCancelled = "CANCELLED"
)

// SalesOrder representa la demanda de un cliente.
// PromisedDate es la fecha comprometida de entrega/instalación; alimenta
// la señal de urgencia por proximidad de fecha en las requisiciones.
type SalesOrder struct {
	ID           string
	OrderNumber  string
	CustomerName string
	Status       string
	PromisedDate *time.Time
	Notes        string
	Lines        []SalesOrderLine
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    string
}

// SalesOrderLine es una línea del pedido: un ítem y la cantidad requerida.
type SalesOrderLine struct {
	ID       string
	OrderID  string
	ItemID   string
	Quantity decimal.Decimal // requerida, > 0
}
