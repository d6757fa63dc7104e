package procurement_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/apptest"
	"github.com/jhoicas/Almacen-api/internal/application/procurement"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

var approver = entity.Actor{ID: "00000000-0000-0000-0000-000000000002", Name: "jefa de compras"}

func seedRequisition(s *apptest.Store, itemID, status string) entity.PurchaseRequisition {
	pr := entity.PurchaseRequisition{
		ID:          uuid.New().String(),
		Number:      "REQ-2026-00007",
		ItemID:      itemID,
		Quantity:    dec("15"),
		Urgency:     entity.UrgencyHigh,
		Status:      status,
		Source:      entity.RequisitionSourceManual,
		RequestedBy: testActor.ID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	s.Requisitions[pr.ID] = pr
	return pr
}

func seedSupplier(s *apptest.Store, active bool) entity.Supplier {
	sp := entity.Supplier{
		ID:        uuid.New().String(),
		Name:      "Distribuciones La 14",
		Active:    active,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.Suppliers[sp.ID] = sp
	return sp
}

func newWorkflow(s *apptest.Store) *procurement.WorkflowUseCase {
	repos := s.Repos()
	return procurement.NewWorkflowUseCase(&apptest.TxRunner{S: s}, repos.Requisitions, repos.PurchaseOrders)
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve / Reject
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_RegistraAprobadorYFecha(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "GRI-001", dec("2"), dec("10"))
	pr := seedRequisition(store, item.ID, entity.RequisitionPending)
	uc := newWorkflow(store)

	got, err := uc.Approve(context.Background(), approver, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, approver.ID, *got.ApprovedBy)
	assert.NotNil(t, got.ApprovedAt)

	// La transición y su auditoría se confirman juntas
	require.Len(t, store.Audits, 1)
	assert.Equal(t, "APPROVE", store.Audits[0].Action)
}

func TestApprove_SoloDesdePending(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "GRI-002", dec("2"), dec("10"))
	uc := newWorkflow(store)
	ctx := context.Background()

	var trErr *domain.InvalidTransitionError
	for _, status := range []string{
		entity.RequisitionApproved,
		entity.RequisitionRejected,
		entity.RequisitionConverted,
	} {
		pr := seedRequisition(store, item.ID, status)
		_, err := uc.Approve(ctx, approver, pr.ID)
		require.ErrorAs(t, err, &trErr, status)
		assert.Equal(t, status, trErr.Current)
		assert.Equal(t, status, store.Requisitions[pr.ID].Status, "la requisición queda intacta")
	}

	_, err := uc.Approve(ctx, approver, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReject_ExigeMotivo(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "GRI-003", dec("2"), dec("10"))
	pr := seedRequisition(store, item.ID, entity.RequisitionPending)
	uc := newWorkflow(store)
	ctx := context.Background()

	_, err := uc.Reject(ctx, approver, pr.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.RequisitionPending, store.Requisitions[pr.ID].Status)

	got, err := uc.Reject(ctx, approver, pr.ID, "proveedor sin cupo")
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionRejected, got.Status)
	assert.Equal(t, "proveedor sin cupo", got.RejectionReason)
}

func TestReject_EsTerminal(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "GRI-004", dec("2"), dec("10"))
	pr := seedRequisition(store, item.ID, entity.RequisitionRejected)
	uc := newWorkflow(store)

	_, err := uc.Approve(context.Background(), approver, pr.ID)
	var trErr *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &trErr)
}

// ──────────────────────────────────────────────────────────────────────────────
// ConvertToPurchaseOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestConvert_GeneraOrdenYEnlazaAmbas(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "GRI-005", dec("2"), dec("10"))
	supplier := seedSupplier(store, true)
	pr := seedRequisition(store, item.ID, entity.RequisitionApproved)
	uc := newWorkflow(store)

	po, err := uc.ConvertToPurchaseOrder(context.Background(), approver, procurement.ConvertInputDTO{
		RequisitionID: pr.ID,
		SupplierID:    supplier.ID,
	})
	require.NoError(t, err)

	assert.Regexp(t, `^OC-\d{4}-\d{5}$`, po.Number)
	assert.Equal(t, item.ID, po.ItemID)
	assert.True(t, po.Quantity.Equal(pr.Quantity))
	assert.True(t, po.UnitPrice.Equal(item.Price), "sin precio explícito usa el de catálogo")
	assert.Equal(t, entity.PurchaseOrderPending, po.Status)
	require.NotNil(t, po.RequisitionID)
	assert.Equal(t, pr.ID, *po.RequisitionID)

	converted := store.Requisitions[pr.ID]
	assert.Equal(t, entity.RequisitionConverted, converted.Status)
	require.NotNil(t, converted.PurchaseOrderID)
	assert.Equal(t, po.ID, *converted.PurchaseOrderID)
}

func TestConvert_PrecioExplicitoPrevalece(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "GRI-006", dec("2"), dec("10"))
	supplier := seedSupplier(store, true)
	pr := seedRequisition(store, item.ID, entity.RequisitionApproved)
	uc := newWorkflow(store)

	price := dec("87.50")
	po, err := uc.ConvertToPurchaseOrder(context.Background(), approver, procurement.ConvertInputDTO{
		RequisitionID: pr.ID,
		SupplierID:    supplier.ID,
		UnitPrice:     &price,
	})
	require.NoError(t, err)
	assert.True(t, po.UnitPrice.Equal(price))
}

func TestConvert_SoloRequisicionesAprobadas(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "GRI-007", dec("2"), dec("10"))
	supplier := seedSupplier(store, true)
	uc := newWorkflow(store)
	ctx := context.Background()

	for _, status := range []string{
		entity.RequisitionPending,
		entity.RequisitionRejected,
		entity.RequisitionConverted,
	} {
		pr := seedRequisition(store, item.ID, status)
		_, err := uc.ConvertToPurchaseOrder(ctx, approver, procurement.ConvertInputDTO{
			RequisitionID: pr.ID,
			SupplierID:    supplier.ID,
		})
		require.ErrorIs(t, err, domain.ErrNotApproved, status)
		assert.Equal(t, status, store.Requisitions[pr.ID].Status, "la requisición queda intacta")
	}
	assert.Empty(t, store.PurchaseOrders)
}

func TestConvert_ProveedorInactivoNoSirve(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "GRI-008", dec("2"), dec("10"))
	supplier := seedSupplier(store, false)
	pr := seedRequisition(store, item.ID, entity.RequisitionApproved)
	uc := newWorkflow(store)

	_, err := uc.ConvertToPurchaseOrder(context.Background(), approver, procurement.ConvertInputDTO{
		RequisitionID: pr.ID,
		SupplierID:    supplier.ID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	// Rollback: la requisición sigue aprobada, sin orden creada
	assert.Equal(t, entity.RequisitionApproved, store.Requisitions[pr.ID].Status)
	assert.Empty(t, store.PurchaseOrders)
}

func TestConvert_PrecioNegativoInvalido(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "GRI-009", dec("2"), dec("10"))
	supplier := seedSupplier(store, true)
	pr := seedRequisition(store, item.ID, entity.RequisitionApproved)
	uc := newWorkflow(store)

	bad := dec("-1")
	_, err := uc.ConvertToPurchaseOrder(context.Background(), approver, procurement.ConvertInputDTO{
		RequisitionID: pr.ID,
		SupplierID:    supplier.ID,
		UnitPrice:     &bad,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
