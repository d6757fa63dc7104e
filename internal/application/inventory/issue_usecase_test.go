package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/apptest"
	appinv "github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func seedOrder(s *apptest.Store, status string, lines ...entity.SalesOrderLine) entity.SalesOrder {
	order := entity.SalesOrder{
		ID:           uuid.New().String(),
		OrderNumber:  "PV-2026-00001",
		CustomerName: "Constructora Andina",
		Status:       status,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		CreatedBy:    testActor.ID,
	}
	for i := range lines {
		lines[i].OrderID = order.ID
		if lines[i].ID == "" {
			lines[i].ID = uuid.New().String()
		}
	}
	order.Lines = lines
	s.Orders[order.ID] = order
	return order
}

func newIssue(s *apptest.Store) *appinv.IssueUseCase {
	repos := s.Repos()
	return appinv.NewIssueUseCase(&apptest.TxRunner{S: s}, repos.Audit, logger.NewNop())
}

func TestIssueGoods_DespachaTodasLasLineas(t *testing.T) {
	store := apptest.NewStore()
	a := seedItem(store, "CEM-001", dec("20"), dec("5"))
	b := seedItem(store, "ARE-001", dec("8"), dec("3"))
	order := seedOrder(store, entity.SalesOrderPending,
		entity.SalesOrderLine{ItemID: a.ID, Quantity: dec("12")},
		entity.SalesOrderLine{ItemID: b.ID, Quantity: dec("8")},
	)
	uc := newIssue(store)

	res, err := uc.IssueGoods(context.Background(), testActor, order.ID)
	require.NoError(t, err)
	require.Len(t, res.Movements, 2, "un movimiento OUT por línea")

	assert.True(t, store.Items[a.ID].Quantity.Equal(dec("8")))
	assert.True(t, store.Items[b.ID].Quantity.IsZero())
	assert.Equal(t, entity.SalesOrderCompleted, store.Orders[order.ID].Status)

	for _, m := range store.Movements {
		assert.Equal(t, entity.MovementOUT, m.Direction)
		assert.Equal(t, entity.ReferenceIssue, m.ReferenceType)
		assert.Equal(t, order.ID, m.ReferenceID)
	}
}

func TestIssueGoods_TodoONada(t *testing.T) {
	store := apptest.NewStore()
	a := seedItem(store, "CEM-002", dec("20"), dec("5"))
	b := seedItem(store, "ARE-002", dec("2"), dec("3")) // insuficiente
	order := seedOrder(store, entity.SalesOrderPending,
		entity.SalesOrderLine{ItemID: a.ID, Quantity: dec("5")},
		entity.SalesOrderLine{ItemID: b.ID, Quantity: dec("4")},
	)
	uc := newIssue(store)

	_, err := uc.IssueGoods(context.Background(), testActor, order.ID)

	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, b.SKU, insErr.SKU)

	// Ninguna línea aplicada: ni siquiera la que sí tenía stock
	assert.Empty(t, store.Movements)
	assert.True(t, store.Items[a.ID].Quantity.Equal(dec("20")))
	assert.True(t, store.Items[b.ID].Quantity.Equal(dec("2")))
	assert.Equal(t, entity.SalesOrderPending, store.Orders[order.ID].Status)
}

func TestIssueGoods_AgregaDemandaPorItemRepetido(t *testing.T) {
	store := apptest.NewStore()
	a := seedItem(store, "CEM-003", dec("10"), dec("5"))
	// Dos líneas del mismo ítem: 6 + 6 = 12 > 10 disponible, aunque cada
	// línea por separado sí cabría.
	order := seedOrder(store, entity.SalesOrderPending,
		entity.SalesOrderLine{ItemID: a.ID, Quantity: dec("6")},
		entity.SalesOrderLine{ItemID: a.ID, Quantity: dec("6")},
	)
	uc := newIssue(store)

	_, err := uc.IssueGoods(context.Background(), testActor, order.ID)

	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.True(t, insErr.Requested.Equal(dec("12")), "la demanda se agrega por ítem")
	assert.True(t, store.Items[a.ID].Quantity.Equal(dec("10")))
}

func TestIssueGoods_MarcaRequerimientosFulfilled(t *testing.T) {
	store := apptest.NewStore()
	a := seedItem(store, "CEM-004", dec("10"), dec("5"))
	order := seedOrder(store, entity.SalesOrderPending,
		entity.SalesOrderLine{ItemID: a.ID, Quantity: dec("4")},
	)
	req := entity.StockRequirement{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		LineID:    order.Lines[0].ID,
		ItemID:    a.ID,
		Required:  dec("4"),
		Available: dec("10"),
		Status:    entity.RequirementSufficient,
		CreatedAt: time.Now(),
	}
	store.Requirements[req.ID] = req
	uc := newIssue(store)

	_, err := uc.IssueGoods(context.Background(), testActor, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequirementFulfilled, store.Requirements[req.ID].Status)
}

func TestIssueGoods_SoloPedidosPendientes(t *testing.T) {
	store := apptest.NewStore()
	a := seedItem(store, "CEM-005", dec("10"), dec("5"))
	uc := newIssue(store)
	ctx := context.Background()

	completed := seedOrder(store, entity.SalesOrderCompleted,
		entity.SalesOrderLine{ItemID: a.ID, Quantity: dec("1")})
	cancelled := seedOrder(store, entity.SalesOrderCancelled,
		entity.SalesOrderLine{ItemID: a.ID, Quantity: dec("1")})

	var trErr *domain.InvalidTransitionError

	_, err := uc.IssueGoods(ctx, testActor, completed.ID)
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, entity.SalesOrderCompleted, trErr.Current)

	_, err = uc.IssueGoods(ctx, testActor, cancelled.ID)
	assert.ErrorAs(t, err, &trErr)

	_, err = uc.IssueGoods(ctx, testActor, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
