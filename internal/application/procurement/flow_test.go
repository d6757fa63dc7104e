package procurement_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/apptest"
	appinv "github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
	"github.com/jhoicas/Almacen-api/internal/application/procurement"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Flujo completo: faltante crítico → requisición → aprobación → conversión →
// recepción → cascada de reconciliación.
func TestFlujoCompleto_FaltanteHastaFaltanteResuelto(t *testing.T) {
	store := apptest.NewStore()
	notifier := &apptest.RecordingNotifier{}
	runner := &apptest.TxRunner{S: store}
	repos := store.Repos()
	log := logger.NewNop()
	ctx := context.Background()

	orderUC := orders.NewSalesOrderUseCase(runner, repos.Orders, repos.Requirements, repos.Audit, log)
	generateUC := procurement.NewGenerateUseCase(runner, repos.Items, repos.Audit, notifier,
		dominv.DefaultUrgencyPolicy(), log)
	workflowUC := procurement.NewWorkflowUseCase(runner, repos.Requisitions, repos.PurchaseOrders)
	receiptUC := appinv.NewReceiptUseCase(runner, repos.Audit, notifier, log)

	// Ítem X: 0 en mano, nivel de reorden 10
	itemX := seedItem(store, "FLX-001", decimal.Zero, dec("10"))
	supplier := seedSupplier(store, true)

	// Pedido A: 15 unidades de X, entrega comprometida en 5 días
	promised := time.Now().Add(5 * 24 * time.Hour)
	salesOrder, err := orderUC.Create(ctx, testActor, orders.CreateOrderInputDTO{
		CustomerName: "Constructora del Valle",
		PromisedDate: &promised,
		Lines:        []orders.OrderLineInputDTO{{ItemID: itemX.ID, Quantity: dec("15")}},
	})
	require.NoError(t, err)

	reqs, err := orderUC.Requirements(ctx, salesOrder.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	requirement := reqs[0]
	assert.Equal(t, entity.RequirementCritical, requirement.Status, "faltante 15 > reorden 10")
	assert.True(t, requirement.Shortage.Equal(dec("15")))

	// Requisición por el faltante: la fecha comprometida cercana fuerza CRITICAL
	pr, err := generateUC.GenerateFromShortage(ctx, testActor, requirement.ID, "obra con fecha comprometida")
	require.NoError(t, err)
	assert.Equal(t, entity.UrgencyCritical, pr.Urgency)
	assert.True(t, pr.Quantity.Equal(dec("15")))

	// Segundo intento para el mismo par (ítem, pedido) → duplicado
	_, err = generateUC.GenerateFromShortage(ctx, testActor, requirement.ID, "reintento")
	var dupErr *domain.DuplicateRequisitionError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, pr.Number, dupErr.ExistingNumber)

	// Aprobación y conversión a orden de compra
	_, err = workflowUC.Approve(ctx, approver, pr.ID)
	require.NoError(t, err)
	po, err := workflowUC.ConvertToPurchaseOrder(ctx, approver, procurement.ConvertInputDTO{
		RequisitionID: pr.ID,
		SupplierID:    supplier.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionConverted, store.Requisitions[pr.ID].Status)

	// Recepción de 20 unidades: sube el nivel a 20 y corre la cascada
	res, err := receiptUC.ReceiveGoods(ctx, testActor, po.ID, dec("20"))
	require.NoError(t, err)
	assert.True(t, res.NewQuantity.Equal(dec("20")))
	assert.Equal(t, 1, res.RequirementsResolved)

	resolved := store.Requirements[requirement.ID]
	assert.Equal(t, entity.RequirementSufficient, resolved.Status)
	assert.True(t, resolved.Available.Equal(dec("20")))
	assert.True(t, resolved.Shortage.IsZero())

	require.Len(t, notifier.ShortagesResolved, 1)
	assert.Equal(t, requirement.ID, notifier.ShortagesResolved[0].RequirementID)
	assert.Equal(t, salesOrder.OrderNumber, notifier.ShortagesResolved[0].SalesOrderNumber)

	// El libro respalda la cantidad cacheada
	sum, err := repos.Movements.SumByItem(ctx, itemX.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(store.Items[itemX.ID].Quantity))
}
