package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/jhoicas/comercializacion-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepo_DuplicateCode(t *testing.T) {
	store := testutil.NewStore(t)
	cat := testutil.SeedCategory(t, store, "Abarrotes")
	p := testutil.SeedProduct(t, store, cat.ID, "ARZ-01", testutil.ProductOpts{Stock: 3})

	dup := *p
	dup.ID = uuid.NewString()
	err := store.Products().Create(context.Background(), &dup)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductRepo_UnknownCategoryIsNotFound(t *testing.T) {
	store := testutil.NewStore(t)
	now := time.Now().UTC()
	err := store.Products().Create(context.Background(), &entity.Product{
		ID: uuid.NewString(), Code: "X-1", Name: "X", CategoryID: uuid.NewString(),
		Active: true, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepo_RoundTrip(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	cat := testutil.SeedCategory(t, store, "Limpieza")
	p := testutil.SeedProduct(t, store, cat.ID, "DET-01", testutil.ProductOpts{Stock: 4, MinStock: 5, SalePrice: "12.50"})

	got, err := store.Products().GetByCode(ctx, "DET-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
	assert.True(t, decimal.RequireFromString("12.50").Equal(got.SalePrice))
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Millisecond)

	missing, err := store.Products().GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	low, err := store.Products().ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "DET-01", low[0].Code)

	found, err := store.Products().List(ctx, repository.ProductFilter{Search: "det", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, store.Products().SetActive(ctx, p.ID, false))
	found, err = store.Products().List(ctx, repository.ProductFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestMovementRepo_AppendOnly(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	cat := testutil.SeedCategory(t, store, "Bebidas")
	p := testutil.SeedProduct(t, store, cat.ID, "AGU-01", testutil.ProductOpts{Stock: 1})

	mov := &entity.Movement{
		ID: uuid.NewString(), ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: 2,
		Reason: entity.ReasonPurchase, StockBefore: 1, StockAfter: 3, Date: time.Now().UTC(),
	}
	require.NoError(t, store.Movements().Create(ctx, mov))

	_, err := store.DB().ExecContext(ctx, `UPDATE movimientos_inventario SET cantidad = 5 WHERE id = ?`, mov.ID)
	assert.Error(t, err)
	_, err = store.DB().ExecContext(ctx, `DELETE FROM movimientos_inventario WHERE id = ?`, mov.ID)
	assert.Error(t, err)

	sum, err := store.Movements().SumDelta(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sum)
}

func TestMovementRepo_ListByProductNewestFirst(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	cat := testutil.SeedCategory(t, store, "Bebidas")
	p := testutil.SeedProduct(t, store, cat.ID, "GAS-01", testutil.ProductOpts{})

	date := time.Now().UTC()
	for i := 1; i <= 3; i++ {
		require.NoError(t, store.Movements().Create(ctx, &entity.Movement{
			ID: uuid.NewString(), ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: 1,
			Reason: "compra", StockBefore: i - 1, StockAfter: i, Date: date,
		}))
	}
	list, err := store.Movements().ListByProduct(ctx, p.ID, repository.MovementFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 3, list[0].StockAfter)
	assert.Equal(t, 2, list[1].StockAfter)

	list, err = store.Movements().ListByProduct(ctx, p.ID, repository.MovementFilter{Type: entity.MovementTypeOUT, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSaleRepo_LastNumber(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	customer := testutil.SeedCustomer(t, store, "45678912")

	last, err := store.Sales().LastNumber(ctx, "BOL-2026-")
	require.NoError(t, err)
	assert.Empty(t, last)

	for _, n := range []string{"BOL-2026-0009", "BOL-2026-0010", "FAC-2026-0042", "BOL-2025-0099"} {
		require.NoError(t, store.Sales().Create(ctx, &entity.Sale{
			ID: uuid.NewString(), Number: n, CustomerID: customer.ID, Date: time.Now().UTC(),
			VoucherType: entity.VoucherBoleta, PaymentMethod: entity.PaymentCash, State: entity.SaleCompleted,
		}))
	}
	last, err = store.Sales().LastNumber(ctx, "BOL-2026-")
	require.NoError(t, err)
	assert.Equal(t, "BOL-2026-0010", last)
}

func TestTxRunner_RollbackOnError(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	cat := testutil.SeedCategory(t, store, "Snacks")
	p := testutil.SeedProduct(t, store, cat.ID, "PAP-01", testutil.ProductOpts{Stock: 7})

	boom := errors.New("falla")
	err := store.TxRunner().Run(ctx, func(repos repository.TxRepos) error {
		require.NoError(t, repos.Products.UpdateStock(ctx, p.ID, 1))
		return boom
	})
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 7, testutil.Stock(t, store, p.ID))

	err = store.TxRunner().Run(ctx, func(repos repository.TxRepos) error {
		return &domain.NotFoundError{Entity: "producto", ID: "x"}
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, errors.Is(err, domain.ErrPersistence))
}
