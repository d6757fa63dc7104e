package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// WorkflowUseCase gobierna la máquina de estados de las requisiciones:
// PENDING → {APPROVED, REJECTED}; APPROVED → CONVERTED. REJECTED y CONVERTED
// son terminales. Cada transición es una unidad de trabajo que escribe también
// el asiento de auditoría: transición y auditoría se confirman o revierten juntas.
type WorkflowUseCase struct {
	txRunner TxRunner
	prRepo   repository.PurchaseRequisitionRepository
	poRepo   repository.PurchaseOrderRepository
}

// NewWorkflowUseCase construye el caso de uso del flujo de aprobación.
func NewWorkflowUseCase(txRunner TxRunner, prRepo repository.PurchaseRequisitionRepository, poRepo repository.PurchaseOrderRepository) *WorkflowUseCase {
	return &WorkflowUseCase{txRunner: txRunner, prRepo: prRepo, poRepo: poRepo}
}

// Approve aprueba una requisición PENDING, registrando aprobador y fecha.
func (uc *WorkflowUseCase) Approve(ctx context.Context, actor entity.Actor, id string) (*entity.PurchaseRequisition, error) {
	var pr *entity.PurchaseRequisition
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		var err error
		pr, err = r.Requisitions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if pr == nil {
			return domain.ErrNotFound
		}
		if pr.Status != entity.RequisitionPending {
			return &domain.InvalidTransitionError{Entity: "requisición", Current: pr.Status, Attempt: "APPROVE"}
		}
		now := time.Now()
		pr.Status = entity.RequisitionApproved
		pr.ApprovedBy = &actor.ID
		pr.ApprovedAt = &now
		pr.UpdatedAt = now
		if err := r.Requisitions.Update(ctx, pr); err != nil {
			return err
		}
		return writeAudit(ctx, r, actor, "APPROVE", "requisición "+pr.Number+" aprobada")
	})
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// Reject rechaza una requisición PENDING. El motivo es obligatorio.
func (uc *WorkflowUseCase) Reject(ctx context.Context, actor entity.Actor, id, reason string) (*entity.PurchaseRequisition, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	var pr *entity.PurchaseRequisition
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		var err error
		pr, err = r.Requisitions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if pr == nil {
			return domain.ErrNotFound
		}
		if pr.Status != entity.RequisitionPending {
			return &domain.InvalidTransitionError{Entity: "requisición", Current: pr.Status, Attempt: "REJECT"}
		}
		now := time.Now()
		pr.Status = entity.RequisitionRejected
		pr.ApprovedBy = &actor.ID
		pr.RejectionReason = reason
		pr.UpdatedAt = now
		if err := r.Requisitions.Update(ctx, pr); err != nil {
			return err
		}
		return writeAudit(ctx, r, actor, "REJECT", "requisición "+pr.Number+" rechazada: "+reason)
	})
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// ConvertInputDTO entrada para convertir una requisición aprobada en orden de compra.
type ConvertInputDTO struct {
	RequisitionID string
	SupplierID    string
	UnitPrice     *decimal.Decimal // nil = precio de catálogo del ítem
	ExpectedDate  *time.Time
}

// ConvertToPurchaseOrder convierte una requisición APPROVED en una orden de compra
// línea a línea (cantidad e ítem de la requisición, precio unitario por defecto el
// de catálogo), enlaza ambas y deja la requisición CONVERTED. Falla con ErrNotApproved
// si la requisición no está aprobada; la requisición queda intacta.
func (uc *WorkflowUseCase) ConvertToPurchaseOrder(ctx context.Context, actor entity.Actor, input ConvertInputDTO) (*entity.PurchaseOrder, error) {
	if input.RequisitionID == "" || input.SupplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.UnitPrice != nil && input.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var po *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		pr, err := r.Requisitions.GetForUpdate(ctx, input.RequisitionID)
		if err != nil {
			return err
		}
		if pr == nil {
			return domain.ErrNotFound
		}
		if pr.Status != entity.RequisitionApproved {
			return domain.ErrNotApproved
		}

		supplier, err := r.Suppliers.GetByID(ctx, input.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil || !supplier.Active {
			return domain.ErrNotFound
		}
		item, err := r.Items.GetByID(ctx, pr.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		unitPrice := item.Price
		if input.UnitPrice != nil {
			unitPrice = *input.UnitPrice
		}

		now := time.Now()
		seq, err := r.Sequences.Next(ctx, repository.DocTypePurchaseOrder, now.Year())
		if err != nil {
			return err
		}
		po = &entity.PurchaseOrder{
			ID:            uuid.New().String(),
			Number:        fmt.Sprintf("%s-%d-%05d", repository.DocTypePurchaseOrder, now.Year(), seq),
			SupplierID:    supplier.ID,
			ItemID:        pr.ItemID,
			Quantity:      pr.Quantity,
			UnitPrice:     unitPrice,
			Status:        entity.PurchaseOrderPending,
			RequisitionID: &pr.ID,
			ExpectedDate:  input.ExpectedDate,
			CreatedAt:     now,
			UpdatedAt:     now,
			CreatedBy:     actor.ID,
		}
		if err := r.PurchaseOrders.Create(ctx, po); err != nil {
			return err
		}

		pr.Status = entity.RequisitionConverted
		pr.PurchaseOrderID = &po.ID
		pr.UpdatedAt = now
		if err := r.Requisitions.Update(ctx, pr); err != nil {
			return err
		}
		return writeAudit(ctx, r, actor, "CONVERT",
			"requisición "+pr.Number+" convertida en la orden de compra "+po.Number)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// GetByID devuelve una requisición.
func (uc *WorkflowUseCase) GetByID(ctx context.Context, id string) (*entity.PurchaseRequisition, error) {
	pr, err := uc.prRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, domain.ErrNotFound
	}
	return pr, nil
}

// List lista requisiciones por estado y urgencia.
func (uc *WorkflowUseCase) List(ctx context.Context, status, urgency string, limit, offset int) ([]*entity.PurchaseRequisition, error) {
	return uc.prRepo.List(ctx, status, urgency, limit, offset)
}

// ListPurchaseOrders lista órdenes de compra por estado.
func (uc *WorkflowUseCase) ListPurchaseOrders(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	return uc.poRepo.List(ctx, status, limit, offset)
}

// writeAudit escribe el asiento de auditoría dentro de la tx de la transición.
func writeAudit(ctx context.Context, r inventory.TxRepos, actor entity.Actor, action, description string) error {
	return r.Audit.Create(ctx, &entity.AuditLog{
		ID:          uuid.New().String(),
		ActorID:     actor.ID,
		Module:      "procurement",
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	})
}
