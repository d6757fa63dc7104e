package entity

import "time"

// Supplier representa un proveedor al que se le emiten órdenes de compra.
type Supplier struct {
	ID        string
	Name      string
	TaxID     string // NIT
	Email     string
	Phone     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
