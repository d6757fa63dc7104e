package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/notify"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// ReceiptUseCase procesa recepciones de mercancía: aplica el movimiento IN sobre el
// libro, marca la orden de compra como entregada y corre la cascada de reconciliación
// sobre los requerimientos abiertos del ítem recibido. Una unidad de trabajo.
type ReceiptUseCase struct {
	txRunner  TxRunner
	auditRepo repository.AuditRepository
	notifier  notify.Notifier
	log       *logger.Logger
}

// NewReceiptUseCase construye el caso de uso de recepción.
func NewReceiptUseCase(txRunner TxRunner, auditRepo repository.AuditRepository, notifier notify.Notifier, log *logger.Logger) *ReceiptUseCase {
	return &ReceiptUseCase{txRunner: txRunner, auditRepo: auditRepo, notifier: notifier, log: log}
}

// ReceiptResultDTO resultado de una recepción: nivel antes/después y
// cuántos requerimientos quedaron resueltos por la cascada.
type ReceiptResultDTO struct {
	PurchaseOrderID      string
	ItemID               string
	PreviousQuantity     decimal.Decimal
	NewQuantity          decimal.Decimal
	RequirementsResolved int
}

// resolvedShortage acumula lo necesario para notificar un faltante resuelto tras el commit.
type resolvedShortage struct {
	req   *entity.StockRequirement
	order *entity.SalesOrder
}

// ReceiveGoods aplica la entrega de una orden de compra. Falla con ErrAlreadyReceived
// si la orden ya está en estado entregado: una entrega nunca se contabiliza dos veces.
// receivedQty en cero significa recibir la cantidad completa de la orden.
func (uc *ReceiptUseCase) ReceiveGoods(ctx context.Context, actor entity.Actor, purchaseOrderID string, receivedQty decimal.Decimal) (*ReceiptResultDTO, error) {
	if purchaseOrderID == "" || receivedQty.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var (
		result   *ReceiptResultDTO
		po       *entity.PurchaseOrder
		item     *entity.Item
		resolved []resolvedShortage
	)
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		var err error
		po, err = r.PurchaseOrders.GetForUpdate(ctx, purchaseOrderID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		switch po.Status {
		case entity.PurchaseOrderDelivered:
			return domain.ErrAlreadyReceived
		case entity.PurchaseOrderCancelled:
			return &domain.InvalidTransitionError{Entity: "orden de compra", Current: po.Status, Attempt: "RECEIVE"}
		}
		if receivedQty.IsZero() {
			receivedQty = po.Quantity
		}

		item, err = r.Items.GetForUpdate(ctx, po.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		mov, err := applyMovementLocked(ctx, r, item, entity.MovementIN, receivedQty,
			entity.ReferenceReceipt, po.ID, po.Number, actor.ID, now)
		if err != nil {
			return err
		}

		po.Status = entity.PurchaseOrderDelivered
		po.DeliveredAt = &now
		po.UpdatedAt = now
		if err := r.PurchaseOrders.Update(ctx, po); err != nil {
			return err
		}

		resolved, err = uc.reconcile(ctx, r, item, now)
		if err != nil {
			return err
		}

		result = &ReceiptResultDTO{
			PurchaseOrderID:      po.ID,
			ItemID:               item.ID,
			PreviousQuantity:     mov.PreviousQuantity,
			NewQuantity:          mov.NewQuantity,
			RequirementsResolved: len(resolved),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, actor, "RECEIVE",
		"recepción de "+receivedQty.String()+" por la orden de compra "+po.Number)

	now := time.Now()
	uc.notifier.PurchaseOrderDelivered(notify.PurchaseOrderDeliveredEvent{
		PurchaseOrderID:     po.ID,
		PurchaseOrderNumber: po.Number,
		ItemID:              item.ID,
		ItemName:            item.Name,
		SKU:                 item.SKU,
		ReceivedQuantity:    receivedQty,
		NewQuantity:         result.NewQuantity,
		RequirementsClosed:  result.RequirementsResolved,
		DeliveredAt:         now,
	})
	for _, rs := range resolved {
		ev := notify.ShortageResolvedEvent{
			RequirementID: rs.req.ID,
			ItemID:        item.ID,
			ItemName:      item.Name,
			SKU:           item.SKU,
			Required:      rs.req.Required,
			Available:     rs.req.Available,
			SalesOrderID:  rs.req.OrderID,
			ResolvedAt:    now,
		}
		if rs.order != nil {
			ev.SalesOrderNumber = rs.order.OrderNumber
			ev.CustomerName = rs.order.CustomerName
		}
		uc.notifier.ShortageResolved(ev)
	}
	return result, nil
}

// reconcile es la cascada de reconciliación: actualiza el snapshot de disponible de
// cada requerimiento abierto del ítem (solo pedidos PENDING) al nuevo nivel en mano,
// reclasifica y devuelve los que pasaron a resueltos. Corre dentro de la tx de la recepción.
func (uc *ReceiptUseCase) reconcile(ctx context.Context, r TxRepos, item *entity.Item, now time.Time) ([]resolvedShortage, error) {
	open, err := r.Requirements.ListOpenByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	var resolved []resolvedShortage
	for _, req := range open {
		wasResolved := req.Resolved()

		req.Available = item.Quantity
		req.Shortage = dominv.Shortage(req.Required, req.Available)
		req.Status = dominv.ClassifyRequirement(req.Required, req.Available, item.ReorderLevel)
		req.UpdatedAt = now
		if err := r.Requirements.Update(ctx, req); err != nil {
			return nil, err
		}

		if !wasResolved && req.Resolved() {
			order, err := r.Orders.GetByID(ctx, req.OrderID)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, resolvedShortage{req: req, order: order})
		}
	}
	return resolved, nil
}

func (uc *ReceiptUseCase) audit(ctx context.Context, actor entity.Actor, action, description string) {
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
