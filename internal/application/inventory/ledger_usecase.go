package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// LedgerUseCase mantiene el libro de movimientos de stock. Es la única vía legal
// para cambiar la cantidad en mano de un ítem: no existe (a propósito) ninguna
// operación de "fijar cantidad"; la cantidad cacheada se escribe solo aquí,
// en la misma transacción que el asiento que la respalda.
type LedgerUseCase struct {
	txRunner  TxRunner
	itemRepo  repository.ItemRepository
	movRepo   repository.StockMovementRepository
	auditRepo repository.AuditRepository
	log       *logger.Logger
}

// NewLedgerUseCase construye el caso de uso del libro de movimientos.
func NewLedgerUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
	log *logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		movRepo:   movRepo,
		auditRepo: auditRepo,
		log:       log,
	}
}

// MovementInputDTO entrada para aplicar un movimiento manual (ajuste).
type MovementInputDTO struct {
	ItemID        string
	Direction     string // IN | OUT
	Quantity      decimal.Decimal
	ReferenceCode string
	Notes         string
}

// MovementResultDTO resultado de aplicar un movimiento: snapshot antes/después.
type MovementResultDTO struct {
	MovementID       string
	ItemID           string
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
}

// ApplyMovement aplica un movimiento de ajuste sobre el libro en una transacción:
// bloquea la fila del ítem, valida que una salida no deje stock negativo, inserta
// el asiento inmutable y actualiza la cantidad cacheada. Todo o nada.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, actor entity.Actor, input MovementInputDTO) (*MovementResultDTO, error) {
	if input.ItemID == "" || !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.Direction != entity.MovementIN && input.Direction != entity.MovementOUT {
		return nil, domain.ErrInvalidInput
	}

	var result *MovementResultDTO
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		item, err := r.Items.GetForUpdate(ctx, input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		mov, err := applyMovementLocked(ctx, r, item, input.Direction, input.Quantity,
			entity.ReferenceAdjustment, "", input.ReferenceCode, actor.ID, time.Now())
		if err != nil {
			return err
		}
		result = &MovementResultDTO{
			MovementID:       mov.ID,
			ItemID:           item.ID,
			PreviousQuantity: mov.PreviousQuantity,
			NewQuantity:      mov.NewQuantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, actor, "ADJUST",
		"ajuste "+input.Direction+" de "+input.Quantity.String()+" sobre el ítem "+input.ItemID)
	return result, nil
}

// ListMovements devuelve el kardex de un ítem (asientos más recientes primero).
func (uc *LedgerUseCase) ListMovements(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByItem(ctx, itemID, from, to, limit, offset)
}

// ReconstructQuantity recalcula la cantidad en mano desde el libro y la compara
// con la cacheada. Expone cualquier deriva entre asientos y cache.
func (uc *LedgerUseCase) ReconstructQuantity(ctx context.Context, itemID string) (ledger, cached decimal.Decimal, err error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, decimal.Zero, domain.ErrNotFound
	}
	sum, err := uc.movRepo.SumByItem(ctx, itemID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return sum, item.Quantity, nil
}

// audit escribe el rastro fuera de la tx de negocio: un fallo aquí se registra
// en el log pero no revierte la operación ya confirmada.
func (uc *LedgerUseCase) audit(ctx context.Context, actor entity.Actor, action, description string) {
	err := uc.auditRepo.Create(ctx, &entity.AuditLog{
		ID:          uuid.New().String(),
		ActorID:     actor.ID,
		Module:      "inventory",
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	})
	if err != nil && uc.log != nil {
		uc.log.Warn().Err(err).Str("action", action).Msg("auditoría no registrada")
	}
}

// applyMovementLocked inserta un asiento y actualiza la cantidad cacheada del ítem.
// Precondición: la fila del ítem ya está bloqueada (GetForUpdate) en la tx de r.
func applyMovementLocked(
	ctx context.Context,
	r TxRepos,
	item *entity.Item,
	direction string,
	quantity decimal.Decimal,
	refType, refID, refCode, actorID string,
	now time.Time,
) (*entity.StockMovement, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	previous := item.Quantity
	var next decimal.Decimal
	switch direction {
	case entity.MovementIN:
		next = previous.Add(quantity)
	case entity.MovementOUT:
		if previous.LessThan(quantity) {
			return nil, &domain.InsufficientStockError{
				ItemID:    item.ID,
				SKU:       item.SKU,
				Available: previous,
				Requested: quantity,
			}
		}
		next = previous.Sub(quantity)
	default:
		return nil, domain.ErrInvalidInput
	}

	mov := &entity.StockMovement{
		ID:               uuid.New().String(),
		ItemID:           item.ID,
		Direction:        direction,
		Quantity:         quantity,
		ReferenceType:    refType,
		ReferenceID:      refID,
		ReferenceCode:    refCode,
		PreviousQuantity: previous,
		NewQuantity:      next,
		CreatedAt:        now,
		CreatedBy:        actorID,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	if err := r.Items.UpdateQuantity(ctx, item.ID, next); err != nil {
		return nil, err
	}
	item.Quantity = next
	return mov, nil
}
