package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists   = errors.New("el email ya está registrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrDuplicateRequisition = errors.New("ya existe una requisición activa para esta necesidad")
	ErrInvalidTransition    = errors.New("transición de estado no permitida")
	ErrNotApproved          = errors.New("la requisición no está aprobada")
	ErrAlreadyReceived      = errors.New("la orden de compra ya fue recibida")
)

// InsufficientStockError detalla un intento de salida que dejaría el stock en negativo.
// Satisface errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	ItemID    string
	SKU       string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %s, solicitado %s",
		e.SKU, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// DuplicateRequisitionError incluye el número de la requisición activa existente
// para que el caller pueda enlazarla en vez de reintentar a ciegas.
type DuplicateRequisitionError struct {
	ExistingID     string
	ExistingNumber string
}

func (e *DuplicateRequisitionError) Error() string {
	return fmt.Sprintf("ya existe la requisición activa %s para este ítem y pedido", e.ExistingNumber)
}

func (e *DuplicateRequisitionError) Is(target error) bool { return target == ErrDuplicateRequisition }

// InvalidTransitionError expone el estado actual para que el caller resincronice su vista.
type InvalidTransitionError struct {
	Entity  string
	Current string
	Attempt string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s en estado %s no admite la transición %s", e.Entity, e.Current, e.Attempt)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }
