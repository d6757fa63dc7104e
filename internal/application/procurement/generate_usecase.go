package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/notify"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// replenishFactor define el stock objetivo del barrido: nivel de reorden × 1.5.
var replenishFactor = decimal.NewFromFloat(1.5)

// GenerateUseCase crea requisiciones de compra desde faltantes, con prevención
// estricta de duplicados: toda creación bloquea primero la fila del ítem y corre
// el chequeo más el insert en esa misma transacción, así dos callers concurrentes
// no pueden pasar ambos el chequeo aunque todavía no exista ninguna requisición.
type GenerateUseCase struct {
	txRunner  TxRunner
	itemRepo  repository.ItemRepository
	auditRepo repository.AuditRepository
	notifier  notify.Notifier
	policy    dominv.UrgencyPolicy
	log       *logger.Logger
}

// NewGenerateUseCase construye el generador de requisiciones.
func NewGenerateUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	auditRepo repository.AuditRepository,
	notifier notify.Notifier,
	policy dominv.UrgencyPolicy,
	log *logger.Logger,
) *GenerateUseCase {
	return &GenerateUseCase{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		auditRepo: auditRepo,
		notifier:  notifier,
		policy:    policy,
		log:       log,
	}
}

// GenerateFromShortage crea una requisición para el faltante de un requerimiento.
// El motivo es obligatorio. Falla con DuplicateRequisitionError (y el número de la
// existente) si ya hay una requisición PENDING/APPROVED para el mismo par (ítem, pedido).
func (uc *GenerateUseCase) GenerateFromShortage(ctx context.Context, actor entity.Actor, requirementID, reason string) (*entity.PurchaseRequisition, error) {
	if requirementID == "" || reason == "" {
		return nil, domain.ErrInvalidInput
	}

	var (
		pr   *entity.PurchaseRequisition
		item *entity.Item
		sale *entity.SalesOrder
	)
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		req, err := r.Requirements.GetByID(ctx, requirementID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if !req.Shortage.GreaterThan(decimal.Zero) {
			return domain.ErrConflict // nada que procurar
		}

		// Bloquear la fila del ítem: toda creación de requisiciones para un ítem
		// (manual o barrido) serializa sobre este lock, así el chequeo de duplicados
		// no corre contra un conjunto vacío en dos transacciones a la vez.
		item, err = r.Items.GetForUpdate(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		sale, err = r.Orders.GetByID(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}

		pr, err = createRequisition(ctx, r, uc.policy, createInput{
			item:         item,
			salesOrderID: &req.OrderID,
			quantity:     req.Shortage,
			shortage:     req.Shortage,
			promised:     sale.PromisedDate,
			reason:       reason,
			source:       entity.RequisitionSourceManual,
			actor:        actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, actor, "CREATE", "requisición "+pr.Number+" generada desde faltante")
	uc.notifyIfUrgent(pr, item, sale)
	return pr, nil
}

// LowStockResultDTO resumen de un barrido de stock bajo.
type LowStockResultDTO struct {
	ItemsChecked        int
	RequisitionsCreated int
	Numbers             []string
}

// CheckLowStock es el barrido programado: para cada ítem activo con cantidad en mano
// en o por debajo de su nivel de reorden y sin requisición genérica activa, genera
// una requisición AUTO atribuida al actor de sistema. Cada ítem corre en su propia
// transacción: un fallo puntual no aborta el lote.
func (uc *GenerateUseCase) CheckLowStock(ctx context.Context) (*LowStockResultDTO, error) {
	low, err := uc.itemRepo.ListAtOrBelowReorder(ctx)
	if err != nil {
		return nil, err
	}

	result := &LowStockResultDTO{ItemsChecked: len(low)}
	for _, candidate := range low {
		pr, err := uc.generateForItem(ctx, candidate.ID)
		if err != nil {
			uc.log.Warn().Err(err).Str("item_id", candidate.ID).Msg("barrido: requisición no generada")
			continue
		}
		if pr != nil {
			result.RequisitionsCreated++
			result.Numbers = append(result.Numbers, pr.Number)
		}
	}

	uc.notifier.LowStockBatch(notify.LowStockBatchEvent{
		ItemsChecked:        result.ItemsChecked,
		RequisitionsCreated: result.RequisitionsCreated,
		Numbers:             result.Numbers,
		RanAt:               time.Now(),
	})
	uc.audit(ctx, entity.SystemActor, "SWEEP",
		fmt.Sprintf("barrido de stock bajo: %d ítems revisados, %d requisiciones", result.ItemsChecked, result.RequisitionsCreated))
	return result, nil
}

// generateForItem genera la requisición genérica de un ítem bajo el nivel de reorden.
// Devuelve nil sin error si la condición ya no aplica o ya existe una activa.
func (uc *GenerateUseCase) generateForItem(ctx context.Context, itemID string) (*entity.PurchaseRequisition, error) {
	var pr *entity.PurchaseRequisition
	var item *entity.Item
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		// Revalidar bajo lock: el stock pudo cambiar desde el listado
		var err error
		item, err = r.Items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil || !item.Active || item.Quantity.GreaterThan(item.ReorderLevel) {
			return nil
		}
		existing, err := r.Requisitions.FindActiveForUpdate(ctx, item.ID, nil)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		target := item.ReorderLevel.Mul(replenishFactor)
		quantity := target.Sub(item.Quantity)
		if !quantity.GreaterThan(decimal.Zero) {
			return nil
		}
		shortage := item.ReorderLevel.Sub(item.Quantity)

		pr, err = createRequisition(ctx, r, uc.policy, createInput{
			item:         item,
			quantity:     quantity,
			shortage:     shortage,
			reason:       "reposición automática: stock en o bajo el nivel de reorden",
			source:       entity.RequisitionSourceAuto,
			actor:        entity.SystemActor,
			skipDupCheck: true, // ya se hizo arriba bajo el mismo lock
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if pr != nil {
		uc.notifyIfUrgent(pr, item, nil)
	}
	return pr, nil
}

// createInput parámetros internos para crear una requisición dentro de una tx.
type createInput struct {
	item         *entity.Item
	salesOrderID *string
	quantity     decimal.Decimal
	shortage     decimal.Decimal
	promised     *time.Time
	reason       string
	source       string
	actor        entity.Actor
	skipDupCheck bool
}

// createRequisition ejecuta el chequeo de duplicados, calcula la urgencia, asigna el
// consecutivo e inserta la requisición. Debe invocarse dentro de una tx.
func createRequisition(ctx context.Context, r inventory.TxRepos, policy dominv.UrgencyPolicy, in createInput) (*entity.PurchaseRequisition, error) {
	if !in.skipDupCheck {
		existing, err := r.Requisitions.FindActiveForUpdate(ctx, in.item.ID, in.salesOrderID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, &domain.DuplicateRequisitionError{ExistingID: existing.ID, ExistingNumber: existing.Number}
		}
	}

	now := time.Now()
	urgency := policy.Score(in.shortage, in.item.ReorderLevel, in.promised, now)

	seq, err := r.Sequences.Next(ctx, repository.DocTypeRequisition, now.Year())
	if err != nil {
		return nil, err
	}

	pr := &entity.PurchaseRequisition{
		ID:           uuid.New().String(),
		Number:       fmt.Sprintf("%s-%d-%05d", repository.DocTypeRequisition, now.Year(), seq),
		ItemID:       in.item.ID,
		SalesOrderID: in.salesOrderID,
		Quantity:     in.quantity,
		Urgency:      urgency,
		Status:       entity.RequisitionPending,
		Source:       in.source,
		Reason:       in.reason,
		RequestedBy:  in.actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.Requisitions.Create(ctx, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

// notifyIfUrgent emite el evento de creación para urgencias HIGH/CRITICAL.
// El fallo del transporte nunca revierte la requisición: esto corre tras el commit.
func (uc *GenerateUseCase) notifyIfUrgent(pr *entity.PurchaseRequisition, item *entity.Item, sale *entity.SalesOrder) {
	if pr.Urgency != entity.UrgencyHigh && pr.Urgency != entity.UrgencyCritical {
		return
	}
	ev := notify.RequisitionCreatedEvent{
		RequisitionID:     pr.ID,
		RequisitionNumber: pr.Number,
		ItemID:            pr.ItemID,
		Quantity:          pr.Quantity,
		Urgency:           pr.Urgency,
		RequestedBy:       pr.RequestedBy,
		CreatedAt:         pr.CreatedAt,
	}
	if item != nil {
		ev.ItemName = item.Name
		ev.SKU = item.SKU
	}
	if sale != nil {
		ev.SalesOrderNumber = sale.OrderNumber
	}
	uc.notifier.RequisitionCreated(ev)
}

func (uc *GenerateUseCase) audit(ctx context.Context, actor entity.Actor, action, description string) {
	err := uc.auditRepo.Create(ctx, &entity.AuditLog{
		ID:          uuid.New().String(),
		ActorID:     actor.ID,
		Module:      "procurement",
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	})
	if err != nil && uc.log != nil {
		uc.log.Warn().Err(err).Str("action", action).Msg("auditoría no registrada")
	}
}
