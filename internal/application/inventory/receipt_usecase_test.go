package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/apptest"
	appinv "github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func seedPurchaseOrder(s *apptest.Store, itemID string, qty decimal.Decimal, status string) entity.PurchaseOrder {
	po := entity.PurchaseOrder{
		ID:        uuid.New().String(),
		Number:    "OC-2026-00001",
		ItemID:    itemID,
		Quantity:  qty,
		UnitPrice: dec("100"),
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		CreatedBy: testActor.ID,
	}
	s.PurchaseOrders[po.ID] = po
	return po
}

func seedRequirement(s *apptest.Store, orderID, itemID string, required, available, reorder decimal.Decimal) entity.StockRequirement {
	req := entity.StockRequirement{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		LineID:    uuid.New().String(),
		ItemID:    itemID,
		Required:  required,
		Available: available,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	req.Shortage = required.Sub(available)
	if req.Shortage.LessThan(decimal.Zero) {
		req.Shortage = decimal.Zero
	}
	switch {
	case req.Shortage.IsZero():
		req.Status = entity.RequirementSufficient
	case req.Shortage.LessThanOrEqual(reorder):
		req.Status = entity.RequirementShortage
	default:
		req.Status = entity.RequirementCritical
	}
	s.Requirements[req.ID] = req
	return req
}

func newReceipt(s *apptest.Store, n *apptest.RecordingNotifier) *appinv.ReceiptUseCase {
	repos := s.Repos()
	return appinv.NewReceiptUseCase(&apptest.TxRunner{S: s}, repos.Audit, n, logger.NewNop())
}

// ──────────────────────────────────────────────────────────────────────────────
// ReceiveGoods
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveGoods_AplicaEntradaYEntregaLaOrden(t *testing.T) {
	store := apptest.NewStore()
	notifier := &apptest.RecordingNotifier{}
	item := seedItem(store, "VAR-001", dec("2"), dec("5"))
	po := seedPurchaseOrder(store, item.ID, dec("30"), entity.PurchaseOrderPending)
	uc := newReceipt(store, notifier)

	res, err := uc.ReceiveGoods(context.Background(), testActor, po.ID, dec("30"))
	require.NoError(t, err)
	assert.True(t, res.PreviousQuantity.Equal(dec("2")))
	assert.True(t, res.NewQuantity.Equal(dec("32")))

	got := store.PurchaseOrders[po.ID]
	assert.Equal(t, entity.PurchaseOrderDelivered, got.Status)
	require.NotNil(t, got.DeliveredAt)

	require.Len(t, notifier.Deliveries, 1)
	assert.Equal(t, po.Number, notifier.Deliveries[0].PurchaseOrderNumber)
	assert.True(t, notifier.Deliveries[0].ReceivedQuantity.Equal(dec("30")))
}

func TestReceiveGoods_CantidadCeroRecibeLaOrdenCompleta(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "VAR-002", decimal.Zero, dec("5"))
	po := seedPurchaseOrder(store, item.ID, dec("25"), entity.PurchaseOrderPending)
	uc := newReceipt(store, &apptest.RecordingNotifier{})

	res, err := uc.ReceiveGoods(context.Background(), testActor, po.ID, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.NewQuantity.Equal(dec("25")))
}

func TestReceiveGoods_NuncaContabilizaDosVeces(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "VAR-003", decimal.Zero, dec("5"))
	po := seedPurchaseOrder(store, item.ID, dec("10"), entity.PurchaseOrderPending)
	uc := newReceipt(store, &apptest.RecordingNotifier{})
	ctx := context.Background()

	_, err := uc.ReceiveGoods(ctx, testActor, po.ID, dec("10"))
	require.NoError(t, err)

	_, err = uc.ReceiveGoods(ctx, testActor, po.ID, dec("10"))
	assert.ErrorIs(t, err, domain.ErrAlreadyReceived)

	// El nivel quedó como tras la primera recepción
	assert.True(t, store.Items[item.ID].Quantity.Equal(dec("10")))
	assert.Len(t, store.Movements, 1)
}

func TestReceiveGoods_OrdenCanceladaNoSeRecibe(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "VAR-004", decimal.Zero, dec("5"))
	po := seedPurchaseOrder(store, item.ID, dec("10"), entity.PurchaseOrderCancelled)
	uc := newReceipt(store, &apptest.RecordingNotifier{})

	_, err := uc.ReceiveGoods(context.Background(), testActor, po.ID, dec("10"))

	var trErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, entity.PurchaseOrderCancelled, trErr.Current)
	assert.Empty(t, store.Movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cascada de reconciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveGoods_CascadaResuelveFaltantesParcialmente(t *testing.T) {
	store := apptest.NewStore()
	notifier := &apptest.RecordingNotifier{}
	item := seedItem(store, "VAR-005", decimal.Zero, dec("8"))

	// Tres pedidos pendientes con faltantes 5, 10 y 20 sobre el mismo ítem
	o1 := seedOrder(store, entity.SalesOrderPending, entity.SalesOrderLine{ItemID: item.ID, Quantity: dec("5")})
	o2 := seedOrder(store, entity.SalesOrderPending, entity.SalesOrderLine{ItemID: item.ID, Quantity: dec("10")})
	o3 := seedOrder(store, entity.SalesOrderPending, entity.SalesOrderLine{ItemID: item.ID, Quantity: dec("20")})
	r1 := seedRequirement(store, o1.ID, item.ID, dec("5"), decimal.Zero, item.ReorderLevel)
	r2 := seedRequirement(store, o2.ID, item.ID, dec("10"), decimal.Zero, item.ReorderLevel)
	r3 := seedRequirement(store, o3.ID, item.ID, dec("20"), decimal.Zero, item.ReorderLevel)

	po := seedPurchaseOrder(store, item.ID, dec("12"), entity.PurchaseOrderPending)
	uc := newReceipt(store, notifier)

	res, err := uc.ReceiveGoods(context.Background(), testActor, po.ID, dec("12"))
	require.NoError(t, err)

	// Cada requerimiento ve el nuevo nivel completo: el stock no se "reparte"
	for _, id := range []string{r1.ID, r2.ID, r3.ID} {
		assert.True(t, store.Requirements[id].Available.Equal(dec("12")))
	}

	// 5 y 10 quedan cubiertos; 20 sigue abierto con faltante 8, reclasificado
	// de CRITICAL a SHORTAGE (8 <= reorden 8)
	assert.Equal(t, entity.RequirementSufficient, store.Requirements[r1.ID].Status)
	assert.Equal(t, entity.RequirementSufficient, store.Requirements[r2.ID].Status)
	assert.Equal(t, entity.RequirementShortage, store.Requirements[r3.ID].Status)
	assert.True(t, store.Requirements[r3.ID].Shortage.Equal(dec("8")))

	assert.Equal(t, 2, res.RequirementsResolved)
	assert.Len(t, notifier.ShortagesResolved, 2, "un evento por faltante resuelto")
}

func TestReceiveGoods_CascadaIgnoraPedidosNoPendientes(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "VAR-006", decimal.Zero, dec("5"))

	cancelled := seedOrder(store, entity.SalesOrderCancelled, entity.SalesOrderLine{ItemID: item.ID, Quantity: dec("5")})
	rc := seedRequirement(store, cancelled.ID, item.ID, dec("5"), decimal.Zero, item.ReorderLevel)

	pending := seedOrder(store, entity.SalesOrderPending, entity.SalesOrderLine{ItemID: item.ID, Quantity: dec("5")})
	rp := seedRequirement(store, pending.ID, item.ID, dec("5"), decimal.Zero, item.ReorderLevel)

	po := seedPurchaseOrder(store, item.ID, dec("10"), entity.PurchaseOrderPending)
	uc := newReceipt(store, &apptest.RecordingNotifier{})

	res, err := uc.ReceiveGoods(context.Background(), testActor, po.ID, dec("10"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.RequirementsResolved)
	assert.Equal(t, entity.RequirementSufficient, store.Requirements[rp.ID].Status)
	// El requerimiento del pedido cancelado quedó intacto
	assert.True(t, store.Requirements[rc.ID].Available.IsZero())
	assert.Equal(t, entity.RequirementShortage, store.Requirements[rc.ID].Status)
}

func TestReceiveGoods_NoNotificaLoYaResuelto(t *testing.T) {
	store := apptest.NewStore()
	notifier := &apptest.RecordingNotifier{}
	item := seedItem(store, "VAR-007", dec("10"), dec("5"))

	order := seedOrder(store, entity.SalesOrderPending, entity.SalesOrderLine{ItemID: item.ID, Quantity: dec("5")})
	req := seedRequirement(store, order.ID, item.ID, dec("5"), dec("10"), item.ReorderLevel)
	require.Equal(t, entity.RequirementSufficient, req.Status)

	po := seedPurchaseOrder(store, item.ID, dec("3"), entity.PurchaseOrderPending)
	uc := newReceipt(store, notifier)

	res, err := uc.ReceiveGoods(context.Background(), testActor, po.ID, dec("3"))
	require.NoError(t, err)

	// El snapshot se refresca, pero no hubo transición a resuelto
	assert.True(t, store.Requirements[req.ID].Available.Equal(dec("13")))
	assert.Equal(t, 0, res.RequirementsResolved)
	assert.Empty(t, notifier.ShortagesResolved)
}
