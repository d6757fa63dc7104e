package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos sobre Querier para probar la traducción de errores del adaptador
// ──────────────────────────────────────────────────────────────────────────────

type fakeQuerier struct {
	execErr error
	row     pgx.Row
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("no implementado")
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return f.row
}

// requisitionRow entrega una requisición fija en el orden de requisitionColumns.
type requisitionRow struct{ pr entity.PurchaseRequisition }

func (r requisitionRow) Scan(dest ...any) error {
	*dest[0].(*string) = r.pr.ID
	*dest[1].(*string) = r.pr.Number
	*dest[2].(*string) = r.pr.ItemID
	*dest[3].(**string) = r.pr.SalesOrderID
	*dest[4].(*decimal.Decimal) = r.pr.Quantity
	*dest[5].(*string) = r.pr.Urgency
	*dest[6].(*string) = r.pr.Status
	*dest[7].(*string) = r.pr.Source
	*dest[8].(*string) = r.pr.Reason
	*dest[9].(*string) = r.pr.RequestedBy
	*dest[10].(**string) = r.pr.ApprovedBy
	*dest[11].(**time.Time) = r.pr.ApprovedAt
	*dest[12].(*string) = r.pr.RejectionReason
	*dest[13].(**string) = r.pr.PurchaseOrderID
	*dest[14].(*time.Time) = r.pr.CreatedAt
	*dest[15].(*time.Time) = r.pr.UpdatedAt
	return nil
}

type errRow struct{ err error }

func (r errRow) Scan(dest ...any) error { return r.err }

// ──────────────────────────────────────────────────────────────────────────────
// Create: respaldo ante violación de unicidad
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ViolacionDeUnicidadDevuelveLaRequisicionExistente(t *testing.T) {
	existing := entity.PurchaseRequisition{
		ID:       "5b1e2c8a-0000-0000-0000-000000000001",
		Number:   "REQ-2026-00007",
		ItemID:   "item-1",
		Quantity: decimal.NewFromInt(6),
		Urgency:  entity.UrgencyMedium,
		Status:   entity.RequisitionPending,
		Source:   entity.RequisitionSourceManual,
	}
	q := &fakeQuerier{
		execErr: &pgconn.PgError{Code: codeUniqueViolation},
		row:     requisitionRow{pr: existing},
	}
	repo := NewPurchaseRequisitionRepository(q)

	err := repo.Create(context.Background(), &entity.PurchaseRequisition{ItemID: "item-1"})
	var dupErr *domain.DuplicateRequisitionError
	require.ErrorAs(t, err, &dupErr, "el conflicto expone la requisición activa, no solo el centinela")
	assert.Equal(t, existing.ID, dupErr.ExistingID)
	assert.Equal(t, existing.Number, dupErr.ExistingNumber)
	assert.ErrorIs(t, err, domain.ErrDuplicateRequisition)
}

func TestCreate_ViolacionSinRelecturaDegradaAlCentinela(t *testing.T) {
	// Si la relectura no encuentra la fila (o la tx quedó abortada), el adaptador
	// degrada al centinela en vez de fallar con un error de infraestructura.
	q := &fakeQuerier{
		execErr: &pgconn.PgError{Code: codeUniqueViolation},
		row:     errRow{err: pgx.ErrNoRows},
	}
	repo := NewPurchaseRequisitionRepository(q)

	err := repo.Create(context.Background(), &entity.PurchaseRequisition{ItemID: "item-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateRequisition)
	var dupErr *domain.DuplicateRequisitionError
	assert.False(t, errors.As(err, &dupErr))
}

func TestCreate_ErrorAjenoSePropagaEnvuelto(t *testing.T) {
	cause := errors.New("conexión cerrada")
	repo := NewPurchaseRequisitionRepository(&fakeQuerier{execErr: cause})

	err := repo.Create(context.Background(), &entity.PurchaseRequisition{ItemID: "item-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrDuplicateRequisition)
}
