package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// IssueUseCase despacha pedidos de venta: aplica los movimientos OUT de todas las
// líneas en una sola transacción, todo o nada. Si una sola línea no tiene stock,
// el despacho completo falla y ningún movimiento queda aplicado.
type IssueUseCase struct {
	txRunner  TxRunner
	auditRepo repository.AuditRepository
	log       *logger.Logger
}

// NewIssueUseCase construye el caso de uso de despacho.
func NewIssueUseCase(txRunner TxRunner, auditRepo repository.AuditRepository, log *logger.Logger) *IssueUseCase {
	return &IssueUseCase{txRunner: txRunner, auditRepo: auditRepo, log: log}
}

// IssueResultDTO resultado del despacho por línea.
type IssueResultDTO struct {
	OrderID   string
	Movements []MovementResultDTO
}

// IssueGoods despacha el pedido: bloquea los ítems involucrados (en orden estable
// para evitar deadlocks), verifica disponibilidad de todas las líneas, aplica los
// movimientos OUT, marca los requerimientos FULFILLED y el pedido COMPLETED.
func (uc *IssueUseCase) IssueGoods(ctx context.Context, actor entity.Actor, orderID string) (*IssueResultDTO, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}

	var result *IssueResultDTO
	var orderNumber string
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.SalesOrderPending {
			return &domain.InvalidTransitionError{Entity: "pedido de venta", Current: order.Status, Attempt: "ISSUE"}
		}
		if len(order.Lines) == 0 {
			return domain.ErrInvalidInput
		}
		orderNumber = order.OrderNumber

		// Demanda agregada por ítem (un pedido puede repetir ítem en varias líneas)
		demand := make(map[string]decimal.Decimal)
		for _, line := range order.Lines {
			if !line.Quantity.GreaterThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			demand[line.ItemID] = demand[line.ItemID].Add(line.Quantity)
		}

		// Bloqueo en orden estable por ID de ítem
		itemIDs := make([]string, 0, len(demand))
		for id := range demand {
			itemIDs = append(itemIDs, id)
		}
		sort.Strings(itemIDs)

		items := make(map[string]*entity.Item, len(itemIDs))
		for _, id := range itemIDs {
			item, err := r.Items.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			items[id] = item
		}

		// Chequeo de disponibilidad completo antes de escribir nada
		for _, id := range itemIDs {
			item := items[id]
			if item.Quantity.LessThan(demand[id]) {
				return &domain.InsufficientStockError{
					ItemID:    item.ID,
					SKU:       item.SKU,
					Available: item.Quantity,
					Requested: demand[id],
				}
			}
		}

		now := time.Now()
		movements := make([]MovementResultDTO, 0, len(order.Lines))
		for _, line := range order.Lines {
			item := items[line.ItemID]
			mov, err := applyMovementLocked(ctx, r, item, entity.MovementOUT, line.Quantity,
				entity.ReferenceIssue, order.ID, order.OrderNumber, actor.ID, now)
			if err != nil {
				return err
			}
			movements = append(movements, MovementResultDTO{
				MovementID:       mov.ID,
				ItemID:           item.ID,
				PreviousQuantity: mov.PreviousQuantity,
				NewQuantity:      mov.NewQuantity,
			})
		}

		reqs, err := r.Requirements.ListByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		for _, req := range reqs {
			if err := r.Requirements.UpdateStatus(ctx, req.ID, entity.RequirementFulfilled); err != nil {
				return err
			}
		}

		if err := r.Orders.UpdateStatus(ctx, order.ID, entity.SalesOrderCompleted); err != nil {
			return err
		}

		result = &IssueResultDTO{OrderID: order.ID, Movements: movements}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, actor, "ISSUE", "despacho del pedido "+orderNumber)
	return result, nil
}

func (uc *IssueUseCase) audit(ctx context.Context, actor entity.Actor, action, description string) {
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
