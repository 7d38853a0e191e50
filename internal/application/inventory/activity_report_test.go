package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/comercializacion-api/internal/application/inventory"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oldMovement inserta un movimiento con fecha pasada directamente en el kardex.
func (h *harness) oldMovement(t *testing.T, p *entity.Product, kind string, qty int, age time.Duration) {
	t.Helper()
	require.NoError(t, h.store.Movements().Create(context.Background(), &entity.Movement{
		ID: uuid.NewString(), ProductID: p.ID, Type: kind, Quantity: qty, Reason: "histórico",
		StockBefore: p.CurrentStock, StockAfter: p.CurrentStock, Date: time.Now().UTC().Add(-age),
	}))
}

func TestReportUseCase_Rotation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.product(t, "A", testutil.ProductOpts{Stock: 20})
	b := h.product(t, "B", testutil.ProductOpts{Stock: 5})
	c := h.product(t, "C", testutil.ProductOpts{Stock: 5})

	_, err := h.record(ctx, inventory.MovementInput{ProductID: a.ID, Type: entity.MovementTypeOUT, Quantity: 10})
	require.NoError(t, err)
	_, err = h.record(ctx, inventory.MovementInput{ProductID: b.ID, Type: entity.MovementTypeOUT, Quantity: 4})
	require.NoError(t, err)
	_, err = h.record(ctx, inventory.MovementInput{ProductID: c.ID, Type: entity.MovementTypeIN, Quantity: 4})
	require.NoError(t, err)
	h.oldMovement(t, a, entity.MovementTypeOUT, 3, 40*24*time.Hour)

	uc := inventory.NewReportUseCase(h.store.Products(), h.store.Movements())
	report, err := uc.Rotation(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, report.Days)
	require.Len(t, report.Items, 2)

	assert.Equal(t, "B", report.Items[0].Code)
	assert.Equal(t, 4, report.Items[0].SoldQuantity)
	assert.Equal(t, 1, report.Items[0].Outflows)
	assert.Equal(t, 1, report.Items[0].CurrentStock)
	assert.Equal(t, "4.00", report.Items[0].TurnoverRate.StringFixed(2))
	assert.Equal(t, "7.50", report.Items[0].DaysOfInventory.StringFixed(2))

	assert.Equal(t, "A", report.Items[1].Code)
	assert.Equal(t, 10, report.Items[1].SoldQuantity, "la salida de hace 40 días queda fuera")
	assert.Equal(t, "1.00", report.Items[1].TurnoverRate.StringFixed(2))

	for _, days := range []int{0, -1, inventory.MaxReportDays + 1} {
		_, err = uc.Rotation(ctx, days)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestReportUseCase_IdleProducts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.product(t, "A", testutil.ProductOpts{Stock: 10})
	h.product(t, "B", testutil.ProductOpts{Stock: 2, SalePrice: "4.50"})
	c := h.product(t, "C", testutil.ProductOpts{Stock: 3, SalePrice: "2.00"})
	h.product(t, "D", testutil.ProductOpts{Stock: 8, Inactive: true})

	_, err := h.record(ctx, inventory.MovementInput{ProductID: a.ID, Type: entity.MovementTypeOUT, Quantity: 1})
	require.NoError(t, err)
	h.oldMovement(t, a, entity.MovementTypeIN, 5, 200*24*time.Hour)
	h.oldMovement(t, c, entity.MovementTypeIN, 3, 90*24*time.Hour)

	uc := inventory.NewReportUseCase(h.store.Products(), h.store.Movements())
	report, err := uc.IdleProducts(ctx, 60)
	require.NoError(t, err)
	require.Len(t, report.Items, 2)

	assert.Equal(t, "B", report.Items[0].Code)
	assert.Nil(t, report.Items[0].LastMovement, "nunca tuvo movimientos")
	assert.True(t, decimal.RequireFromString("9").Equal(report.Items[0].InventoryValue))

	assert.Equal(t, "C", report.Items[1].Code)
	require.NotNil(t, report.Items[1].LastMovement)
	assert.True(t, report.Items[1].LastMovement.Before(report.Since))
	assert.True(t, decimal.RequireFromString("6").Equal(report.Items[1].InventoryValue))

	report, err = uc.IdleProducts(ctx, 120)
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "B", report.Items[0].Code)
}
