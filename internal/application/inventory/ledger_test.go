package inventory_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/comercializacion-api/internal/application/inventory"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/jhoicas/comercializacion-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/comercializacion-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	store    *sqlite.Store
	ledger   *inventory.StockLedger
	adjust   *inventory.AdjustmentCoordinator
	category *entity.Category
	user     *entity.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := testutil.NewStore(t)
	ledger := inventory.NewStockLedger(store.TxRunner(), store.Products(), store.Movements())
	return &harness{
		store:    store,
		ledger:   ledger,
		adjust:   inventory.NewAdjustmentCoordinator(store.TxRunner(), ledger),
		category: testutil.SeedCategory(t, store, "General"),
		user:     testutil.SeedUser(t, store, "almacen", entity.RoleAlmacenero),
	}
}

func (h *harness) product(t *testing.T, code string, opts testutil.ProductOpts) *entity.Product {
	t.Helper()
	return testutil.SeedProduct(t, h.store, h.category.ID, code, opts)
}

func (h *harness) record(ctx context.Context, in inventory.MovementInput) (*entity.Movement, error) {
	var mov *entity.Movement
	err := h.store.TxRunner().Run(ctx, func(repos repository.TxRepos) error {
		var err error
		mov, err = h.ledger.RecordMovement(ctx, repos, in)
		return err
	})
	return mov, err
}

func TestRecordMovement_Types(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.product(t, "P-1", testutil.ProductOpts{Stock: 10})

	mov, err := h.record(ctx, inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeOUT, Quantity: 4, Reason: "venta", UserID: h.user.ID})
	require.NoError(t, err)
	assert.Equal(t, 10, mov.StockBefore)
	assert.Equal(t, 6, mov.StockAfter)
	assert.Equal(t, -4, mov.Delta())

	mov, err = h.record(ctx, inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: 2, Reason: "compra"})
	require.NoError(t, err)
	assert.Equal(t, 8, mov.StockAfter)

	mov, err = h.record(ctx, inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeADJUSTMENT, Quantity: 3, Decrease: true, Reason: "merma"})
	require.NoError(t, err)
	assert.Equal(t, 5, mov.StockAfter)
	assert.Equal(t, 5, testutil.Stock(t, h.store, p.ID))
}

func TestRecordMovement_Rejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.product(t, "P-1", testutil.ProductOpts{Stock: 2})

	tests := []struct {
		name   string
		in     inventory.MovementInput
		target error
	}{
		{"cantidad cero", inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeIN}, domain.ErrInvalidInput},
		{"tipo desconocido", inventory.MovementInput{ProductID: p.ID, Type: "traslado", Quantity: 1}, domain.ErrInvalidInput},
		{"ajuste sin motivo", inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeADJUSTMENT, Quantity: 1}, domain.ErrInvalidInput},
		{"disminución en entrada", inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: 1, Decrease: true}, domain.ErrInvalidInput},
		{"producto inexistente", inventory.MovementInput{ProductID: uuid.NewString(), Type: entity.MovementTypeIN, Quantity: 1}, domain.ErrNotFound},
		{"salida sobre el stock", inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeOUT, Quantity: 3}, domain.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.record(ctx, tt.in)
			assert.ErrorIs(t, err, tt.target)
		})
	}
	assert.Equal(t, 2, testutil.Stock(t, h.store, p.ID))
	sum, err := h.store.Movements().SumDelta(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestRecordMovement_InactiveProduct(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.product(t, "P-1", testutil.ProductOpts{Stock: 2, Inactive: true})

	for _, in := range []inventory.MovementInput{
		{ProductID: p.ID, Type: entity.MovementTypeOUT, Quantity: 1},
		{ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: 1},
		{ProductID: p.ID, Type: entity.MovementTypeADJUSTMENT, Quantity: 1, Reason: "merma", Decrease: true},
	} {
		_, err := h.record(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, in.Type)
	}
	assert.Equal(t, 2, testutil.Stock(t, h.store, p.ID))

	_, err := h.record(ctx, inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: 1, Reversal: true})
	require.NoError(t, err)
	assert.Equal(t, 3, testutil.Stock(t, h.store, p.ID))
}

func TestAdjustStock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.product(t, "P-1", testutil.ProductOpts{Stock: 2})

	_, err := h.adjust.AdjustStock(ctx, inventory.AdjustmentInput{ProductID: p.ID, Delta: -5, Reason: "merma", UserID: h.user.ID})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, testutil.Stock(t, h.store, p.ID))

	mov, err := h.adjust.AdjustStock(ctx, inventory.AdjustmentInput{ProductID: p.ID, Delta: 3, Reason: "devolución proveedor", UserID: h.user.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, mov.Type)
	assert.Equal(t, 3, mov.Quantity)
	assert.Equal(t, 5, testutil.Stock(t, h.store, p.ID))

	_, err = h.adjust.AdjustStock(ctx, inventory.AdjustmentInput{ProductID: p.ID, Delta: 0, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = h.adjust.AdjustStock(ctx, inventory.AdjustmentInput{ProductID: p.ID, Delta: 1, Reason: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	mov, err = h.adjust.AdjustStock(ctx, inventory.AdjustmentInput{ProductID: p.ID, Delta: -5, Reason: "robo"})
	require.NoError(t, err)
	assert.Equal(t, 0, mov.StockAfter)
}

func TestAdjustStock_OutOfRange(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.product(t, "OVF", testutil.ProductOpts{Stock: 10})

	for _, delta := range []int{math.MaxInt64, math.MinInt64, entity.MaxStock} {
		_, err := h.adjust.AdjustStock(ctx, inventory.AdjustmentInput{ProductID: p.ID, Delta: delta, Reason: "carga"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, delta)
	}
	_, err := h.adjust.SetStock(ctx, inventory.CountInput{ProductID: p.ID, Counted: math.MaxInt64})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, 10, testutil.Stock(t, h.store, p.ID))
	sum, err := h.store.Movements().SumDelta(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestSetStock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.product(t, "P-1", testutil.ProductOpts{Stock: 12})

	mov, err := h.adjust.SetStock(ctx, inventory.CountInput{ProductID: p.ID, Counted: 9, UserID: h.user.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.ReasonPhysicalCount, mov.Reason)
	assert.Equal(t, -3, mov.Delta())
	assert.Equal(t, 9, testutil.Stock(t, h.store, p.ID))

	_, err = h.adjust.SetStock(ctx, inventory.CountInput{ProductID: p.ID, Counted: 9})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = h.adjust.SetStock(ctx, inventory.CountInput{ProductID: p.ID, Counted: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = h.adjust.SetStock(ctx, inventory.CountInput{ProductID: uuid.NewString(), Counted: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.product(t, "P-1", testutil.ProductOpts{Stock: 5})

	for _, d := range []int{2, -1, 4} {
		_, err := h.adjust.AdjustStock(ctx, inventory.AdjustmentInput{ProductID: p.ID, Delta: d, Reason: "ajuste"})
		require.NoError(t, err)
	}
	list, err := h.ledger.History(ctx, p.ID, inventory.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 10, list[0].StockAfter)
	assert.Equal(t, 7, list[2].StockAfter)

	list, err = h.ledger.History(ctx, p.ID, inventory.HistoryFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 6, list[0].StockAfter)

	future := time.Now().Add(time.Hour)
	list, err = h.ledger.History(ctx, p.ID, inventory.HistoryFilter{From: &future})
	require.NoError(t, err)
	assert.Empty(t, list)

	past := time.Now().Add(-time.Hour)
	_, err = h.ledger.History(ctx, p.ID, inventory.HistoryFilter{From: &future, To: &past})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = h.ledger.History(ctx, p.ID, inventory.HistoryFilter{Type: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = h.ledger.History(ctx, uuid.NewString(), inventory.HistoryFilter{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconcile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.product(t, "P-1", testutil.ProductOpts{Stock: 10})

	_, err := h.adjust.AdjustStock(ctx, inventory.AdjustmentInput{ProductID: p.ID, Delta: -4, Reason: "merma"})
	require.NoError(t, err)
	_, err = h.adjust.SetStock(ctx, inventory.CountInput{ProductID: p.ID, Counted: 8})
	require.NoError(t, err)

	rec, err := h.ledger.Reconcile(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
	assert.Equal(t, 10, rec.InitialStock)
	assert.Equal(t, -2, rec.MovementsDelta)
	assert.Equal(t, 8, rec.Actual)

	// Escritura directa fuera del kardex: la conciliación la detecta.
	_, err = h.store.DB().ExecContext(ctx, `UPDATE productos SET stock_actual = 11 WHERE id = ?`, p.ID)
	require.NoError(t, err)
	rec, err = h.ledger.Reconcile(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, rec.Consistent)
	assert.Equal(t, 3, rec.Drift)

	_, err = h.ledger.Reconcile(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCurrentStock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.product(t, "P-1", testutil.ProductOpts{Stock: 3})

	n, err := h.ledger.CurrentStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = h.ledger.CurrentStock(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
