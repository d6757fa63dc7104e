package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest alta de ítem de catálogo. La cantidad en mano no se acepta:
// nace en cero y solo cambia vía movimientos.
type CreateItemRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	UnitMeasure  string          `json:"unit_measure"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// UpdateItemRequest actualización de ítem. Sin campo de cantidad, a propósito.
type UpdateItemRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	UnitMeasure  string          `json:"unit_measure"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	Active       *bool           `json:"active"`
}

// ItemResponse representación de un ítem en respuestas.
type ItemResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	UnitMeasure  string          `json:"unit_measure"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	Quantity     decimal.Decimal `json:"quantity"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// SupplierResponse representación de un proveedor.
type SupplierResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TaxID   string `json:"tax_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Active  bool   `json:"active"`
}
