package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/apptest"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

var testActor = entity.Actor{ID: "00000000-0000-0000-0000-000000000001", Name: "vendedor"}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func seedItem(s *apptest.Store, sku string, quantity, reorder decimal.Decimal) entity.Item {
	item := entity.Item{
		ID:           uuid.New().String(),
		SKU:          sku,
		Name:         "Ítem " + sku,
		ReorderLevel: reorder,
		Quantity:     quantity,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.Items[item.ID] = item
	return item
}

func newUseCase(s *apptest.Store) *orders.SalesOrderUseCase {
	repos := s.Repos()
	return orders.NewSalesOrderUseCase(&apptest.TxRunner{S: s}, repos.Orders, repos.Requirements, repos.Audit, logger.NewNop())
}

func reqsByItem(s *apptest.Store, orderID string) map[string]entity.StockRequirement {
	out := map[string]entity.StockRequirement{}
	for _, r := range s.Requirements {
		if r.OrderID == orderID {
			out[r.ItemID] = r
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_GeneraRequerimientosPorLinea(t *testing.T) {
	store := apptest.NewStore()
	full := seedItem(store, "LAD-001", dec("50"), dec("10"))
	short := seedItem(store, "LAD-002", dec("3"), dec("10"))
	crit := seedItem(store, "LAD-003", decimal.Zero, dec("2"))
	uc := newUseCase(store)

	order, err := uc.Create(context.Background(), testActor, orders.CreateOrderInputDTO{
		CustomerName: "Obra Norte",
		Lines: []orders.OrderLineInputDTO{
			{ItemID: full.ID, Quantity: dec("20")},
			{ItemID: short.ID, Quantity: dec("10")},
			{ItemID: crit.ID, Quantity: dec("8")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderPending, order.Status)
	assert.Regexp(t, `^PV-\d{4}-\d{5}$`, order.OrderNumber)

	reqs := reqsByItem(store, order.ID)
	require.Len(t, reqs, 3)

	assert.Equal(t, entity.RequirementSufficient, reqs[full.ID].Status)
	assert.True(t, reqs[full.ID].Shortage.IsZero())

	// Faltante 7 <= reorden 10
	assert.Equal(t, entity.RequirementShortage, reqs[short.ID].Status)
	assert.True(t, reqs[short.ID].Shortage.Equal(dec("7")))

	// Faltante 8 > reorden 2
	assert.Equal(t, entity.RequirementCritical, reqs[crit.ID].Status)
	assert.True(t, reqs[crit.ID].Available.IsZero())
}

func TestCreate_NumeracionConsecutiva(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "LAD-004", dec("50"), dec("10"))
	uc := newUseCase(store)
	ctx := context.Background()

	in := orders.CreateOrderInputDTO{
		CustomerName: "Obra Sur",
		Lines:        []orders.OrderLineInputDTO{{ItemID: item.ID, Quantity: dec("1")}},
	}
	first, err := uc.Create(ctx, testActor, in)
	require.NoError(t, err)
	second, err := uc.Create(ctx, testActor, in)
	require.NoError(t, err)
	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
}

func TestCreate_EntradaInvalida(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "LAD-005", dec("50"), dec("10"))
	uc := newUseCase(store)
	ctx := context.Background()

	_, err := uc.Create(ctx, testActor, orders.CreateOrderInputDTO{CustomerName: "Sin líneas"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, testActor, orders.CreateOrderInputDTO{
		CustomerName: "Cantidad cero",
		Lines:        []orders.OrderLineInputDTO{{ItemID: item.ID, Quantity: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, testActor, orders.CreateOrderInputDTO{
		CustomerName: "Ítem fantasma",
		Lines:        []orders.OrderLineInputDTO{{ItemID: uuid.New().String(), Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.Orders, "el pedido no queda creado si una línea falla")
}

// ──────────────────────────────────────────────────────────────────────────────
// Recalculate
// ──────────────────────────────────────────────────────────────────────────────

func TestRecalculate_RefrescaConElStockActual(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "LAD-006", decimal.Zero, dec("5"))
	uc := newUseCase(store)
	ctx := context.Background()

	order, err := uc.Create(ctx, testActor, orders.CreateOrderInputDTO{
		CustomerName: "Obra Este",
		Lines:        []orders.OrderLineInputDTO{{ItemID: item.ID, Quantity: dec("4")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequirementShortage, reqsByItem(store, order.ID)[item.ID].Status)

	// Llega stock por fuera
	it := store.Items[item.ID]
	it.Quantity = dec("10")
	store.Items[item.ID] = it

	reqs, err := uc.Recalculate(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, entity.RequirementSufficient, reqs[0].Status)
	assert.True(t, reqs[0].Available.Equal(dec("10")))
}

func TestRecalculate_EsIdempotente(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "LAD-007", dec("2"), dec("5"))
	uc := newUseCase(store)
	ctx := context.Background()

	order, err := uc.Create(ctx, testActor, orders.CreateOrderInputDTO{
		CustomerName: "Obra Oeste",
		Lines:        []orders.OrderLineInputDTO{{ItemID: item.ID, Quantity: dec("4")}},
	})
	require.NoError(t, err)

	before := reqsByItem(store, order.ID)[item.ID]

	_, err = uc.Recalculate(ctx, order.ID)
	require.NoError(t, err)

	after := reqsByItem(store, order.ID)[item.ID]
	assert.Equal(t, before.ID, after.ID, "no se reemplaza la fila")
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt, "sin cambios no se reescribe")
}

func TestRecalculate_SoloPedidosPendientes(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "LAD-008", dec("10"), dec("5"))
	uc := newUseCase(store)
	ctx := context.Background()

	order, err := uc.Create(ctx, testActor, orders.CreateOrderInputDTO{
		CustomerName: "Obra Centro",
		Lines:        []orders.OrderLineInputDTO{{ItemID: item.ID, Quantity: dec("1")}},
	})
	require.NoError(t, err)
	require.NoError(t, uc.Cancel(ctx, testActor, order.ID))

	_, err = uc.Recalculate(ctx, order.ID)
	var trErr *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &trErr)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_EliminaLosRequerimientos(t *testing.T) {
	store := apptest.NewStore()
	item := seedItem(store, "LAD-009", decimal.Zero, dec("5"))
	uc := newUseCase(store)
	ctx := context.Background()

	order, err := uc.Create(ctx, testActor, orders.CreateOrderInputDTO{
		CustomerName: "Obra Cancelada",
		Lines:        []orders.OrderLineInputDTO{{ItemID: item.ID, Quantity: dec("4")}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, reqsByItem(store, order.ID))

	require.NoError(t, uc.Cancel(ctx, testActor, order.ID))

	assert.Equal(t, entity.SalesOrderCancelled, store.Orders[order.ID].Status)
	assert.Empty(t, reqsByItem(store, order.ID), "los pedidos cancelados salen del alcance de la cascada")

	// Cancelar dos veces no es una transición válida
	err = uc.Cancel(ctx, testActor, order.ID)
	var trErr *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &trErr)
}
