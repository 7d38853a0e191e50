package purchasing_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/comercializacion-api/internal/application/inventory"
	"github.com/jhoicas/comercializacion-api/internal/application/purchasing"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/jhoicas/comercializacion-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/comercializacion-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	store    *sqlite.Store
	coord    *purchasing.Coordinator
	ledger   *inventory.StockLedger
	category *entity.Category
	supplier *entity.Supplier
	clerk    *entity.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := testutil.NewStore(t)
	ledger := inventory.NewStockLedger(store.TxRunner(), store.Products(), store.Movements())
	return &harness{
		store:    store,
		ledger:   ledger,
		coord:    purchasing.NewCoordinator(store.TxRunner(), ledger, store.Suppliers(), store.Purchases(), decimal.RequireFromString("0.18")),
		category: testutil.SeedCategory(t, store, "General"),
		supplier: testutil.SeedSupplier(t, store, "20123456789"),
		clerk:    testutil.SeedUser(t, store, "almacen1", entity.RoleAlmacenero),
	}
}

func (h *harness) product(t *testing.T, code string, opts testutil.ProductOpts) *entity.Product {
	t.Helper()
	return testutil.SeedProduct(t, h.store, h.category.ID, code, opts)
}

func (h *harness) input(lines ...purchasing.PurchaseLineInput) purchasing.PurchaseInput {
	return purchasing.PurchaseInput{SupplierID: h.supplier.ID, UserID: h.clerk.ID, Lines: lines}
}

func line(productID string, qty int, price string) purchasing.PurchaseLineInput {
	return purchasing.PurchaseLineInput{ProductID: productID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func TestCreateAndReceivePurchase(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.product(t, "A", testutil.ProductOpts{Stock: 10, PurchasePrice: "6.00"})
	b := h.product(t, "B", testutil.ProductOpts{Stock: 0, PurchasePrice: "0"})

	purchase, err := h.coord.CreatePurchase(ctx, h.input(line(a.ID, 20, "9.00"), line(b.ID, 5, "4.00")))
	require.NoError(t, err)
	assert.Equal(t, entity.PurchasePending, purchase.State)
	assert.Equal(t, fmt.Sprintf("COM-%d-001", time.Now().UTC().Year()), purchase.Number)
	assert.True(t, decimal.RequireFromString("200").Equal(purchase.Subtotal), purchase.Subtotal.String())
	assert.True(t, decimal.RequireFromString("36").Equal(purchase.Tax), purchase.Tax.String())
	assert.True(t, decimal.RequireFromString("236").Equal(purchase.Total), purchase.Total.String())
	assert.Equal(t, 10, testutil.Stock(t, h.store, a.ID), "una compra pendiente no mueve stock")

	received, err := h.coord.ReceivePurchase(ctx, purchase.ID, h.clerk.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReceived, received.State)
	require.NotNil(t, received.ReceivedAt)
	assert.Equal(t, 30, testutil.Stock(t, h.store, a.ID))
	assert.Equal(t, 5, testutil.Stock(t, h.store, b.ID))

	movs, err := h.store.Movements().ListByReference(ctx, purchase.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeIN, m.Type)
		assert.Equal(t, entity.ReasonPurchase, m.Reason)
		assert.Equal(t, purchase.Number, m.Notes)
	}

	// Costo promedio: (10*6 + 20*9) / 30 = 8.
	pa, err := h.store.Products().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("8").Equal(pa.PurchasePrice), pa.PurchasePrice.String())
	pb, err := h.store.Products().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("4").Equal(pb.PurchasePrice), pb.PurchasePrice.String())

	stored, err := h.coord.GetPurchase(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReceived, stored.State)
	assert.NotNil(t, stored.ReceivedAt)
	assert.Len(t, stored.Lines, 2)

	rec, err := h.ledger.Reconcile(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
}

func TestReceivePurchase_Twice(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.product(t, "A", testutil.ProductOpts{Stock: 1})

	purchase, err := h.coord.CreatePurchase(ctx, h.input(line(a.ID, 4, "2.00")))
	require.NoError(t, err)
	_, err = h.coord.ReceivePurchase(ctx, purchase.ID, h.clerk.ID)
	require.NoError(t, err)

	_, err = h.coord.ReceivePurchase(ctx, purchase.ID, h.clerk.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = h.coord.CancelPurchase(ctx, purchase.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 5, testutil.Stock(t, h.store, a.ID))
}

func TestCancelPurchase(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.product(t, "A", testutil.ProductOpts{Stock: 1})

	purchase, err := h.coord.CreatePurchase(ctx, h.input(line(a.ID, 4, "2.00")))
	require.NoError(t, err)
	cancelled, err := h.coord.CancelPurchase(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseCancelled, cancelled.State)

	_, err = h.coord.ReceivePurchase(ctx, purchase.ID, h.clerk.ID)
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, string(entity.PurchaseCancelled), stateErr.Current)
	assert.Equal(t, 1, testutil.Stock(t, h.store, a.ID))

	_, err = h.coord.CancelPurchase(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePurchase_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.product(t, "A", testutil.ProductOpts{})

	tests := []struct {
		name   string
		in     purchasing.PurchaseInput
		target error
	}{
		{"sin líneas", h.input(), domain.ErrInvalidInput},
		{"precio cero", h.input(line(a.ID, 1, "0")), domain.ErrInvalidInput},
		{"cantidad negativa", h.input(line(a.ID, -2, "1")), domain.ErrInvalidInput},
		{"producto repetido", h.input(line(a.ID, 1, "1"), line(a.ID, 2, "1")), domain.ErrInvalidInput},
		{"producto inexistente", h.input(line(uuid.NewString(), 1, "1")), domain.ErrNotFound},
		{"proveedor inexistente", purchasing.PurchaseInput{SupplierID: uuid.NewString(), Lines: []purchasing.PurchaseLineInput{line(a.ID, 1, "1")}}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.coord.CreatePurchase(ctx, tt.in)
			assert.ErrorIs(t, err, tt.target)
		})
	}
	list, err := h.coord.ListPurchases(ctx, repository.PurchaseFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreatePurchase_InactiveSupplier(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.product(t, "A", testutil.ProductOpts{})
	require.NoError(t, h.store.Suppliers().SetActive(ctx, h.supplier.ID, false))

	_, err := h.coord.CreatePurchase(ctx, h.input(line(a.ID, 1, "1")))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPurchases_ByState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.product(t, "A", testutil.ProductOpts{})

	p1, err := h.coord.CreatePurchase(ctx, h.input(line(a.ID, 1, "1")))
	require.NoError(t, err)
	p2, err := h.coord.CreatePurchase(ctx, h.input(line(a.ID, 2, "1")))
	require.NoError(t, err)
	_, err = h.coord.ReceivePurchase(ctx, p2.ID, h.clerk.ID)
	require.NoError(t, err)

	pending, err := h.coord.ListPurchases(ctx, repository.PurchaseFilter{State: entity.PurchasePending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, p1.ID, pending[0].ID)
	assert.NotEqual(t, p1.Number, p2.Number)

	_, err = h.coord.ListPurchases(ctx, repository.PurchaseFilter{State: "anulada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// failingMovements falla en la n-ésima inserción de movimiento dentro de la transacción.
type failingMovements struct {
	repository.MovementRepository
	calls, failAt int
}

func (m *failingMovements) Create(ctx context.Context, mov *entity.Movement) error {
	m.calls++
	if m.calls == m.failAt {
		return &domain.PersistenceError{Op: "insert movement", Err: fmt.Errorf("disco lleno")}
	}
	return m.MovementRepository.Create(ctx, mov)
}

type failingRunner struct {
	inner  repository.TxRunner
	failAt int
}

func (r failingRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	return r.inner.Run(ctx, func(repos repository.TxRepos) error {
		repos.Movements = &failingMovements{MovementRepository: repos.Movements, failAt: r.failAt}
		return fn(repos)
	})
}

func TestReceivePurchase_FailureMidwayLeavesNoTrace(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.product(t, "A", testutil.ProductOpts{Stock: 10, PurchasePrice: "6.00"})
	b := h.product(t, "B", testutil.ProductOpts{Stock: 2, PurchasePrice: "4.00"})

	purchase, err := h.coord.CreatePurchase(ctx, h.input(line(a.ID, 20, "9.00"), line(b.ID, 5, "4.00")))
	require.NoError(t, err)

	flaky := purchasing.NewCoordinator(failingRunner{inner: h.store.TxRunner(), failAt: 2}, h.ledger,
		h.store.Suppliers(), h.store.Purchases(), decimal.RequireFromString("0.18"))
	_, err = flaky.ReceivePurchase(ctx, purchase.ID, h.clerk.ID)
	require.ErrorIs(t, err, domain.ErrPersistence)

	assert.Equal(t, 10, testutil.Stock(t, h.store, a.ID))
	assert.Equal(t, 2, testutil.Stock(t, h.store, b.ID))
	movs, err := h.store.Movements().ListByReference(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
	stored, err := h.coord.GetPurchase(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchasePending, stored.State)
	assert.Nil(t, stored.ReceivedAt)
	pa, err := h.store.Products().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("6.00").Equal(pa.PurchasePrice), pa.PurchasePrice.String())

	// La recepción se puede reintentar completa.
	_, err = h.coord.ReceivePurchase(ctx, purchase.ID, h.clerk.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, testutil.Stock(t, h.store, a.ID))
	assert.Equal(t, 7, testutil.Stock(t, h.store, b.ID))
}

func TestReceivePurchase_InactiveProduct(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.product(t, "A", testutil.ProductOpts{Stock: 1})

	purchase, err := h.coord.CreatePurchase(ctx, h.input(line(a.ID, 4, "3.00")))
	require.NoError(t, err)
	require.NoError(t, h.store.Products().SetActive(ctx, a.ID, false))

	_, err = h.coord.ReceivePurchase(ctx, purchase.ID, h.clerk.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, testutil.Stock(t, h.store, a.ID))
	stored, err := h.coord.GetPurchase(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchasePending, stored.State)
}

func TestSummary(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.product(t, "A", testutil.ProductOpts{})

	received, err := h.coord.CreatePurchase(ctx, h.input(line(a.ID, 10, "2.00")))
	require.NoError(t, err)
	_, err = h.coord.ReceivePurchase(ctx, received.ID, h.clerk.ID)
	require.NoError(t, err)
	cancelled, err := h.coord.CreatePurchase(ctx, h.input(line(a.ID, 5, "2.00")))
	require.NoError(t, err)
	_, err = h.coord.CancelPurchase(ctx, cancelled.ID)
	require.NoError(t, err)
	_, err = h.coord.CreatePurchase(ctx, h.input(line(a.ID, 1, "50.00")))
	require.NoError(t, err)

	now := time.Now().UTC()
	s, err := h.coord.Summary(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 1, s.Received)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.Cancelled)
	assert.Equal(t, "23.60", s.Spent.StringFixed(2))
	assert.Equal(t, "23.60", s.Average.StringFixed(2))

	_, err = h.coord.Summary(ctx, now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
