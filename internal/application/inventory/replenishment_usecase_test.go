package inventory_test

import (
	"context"
	"testing"

	"github.com/jhoicas/comercializacion-api/internal/application/inventory"
	"github.com/jhoicas/comercializacion-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportUseCase_LowStock(t *testing.T) {
	h := newHarness(t)
	h.product(t, "A", testutil.ProductOpts{Stock: 1, MinStock: 5, PurchasePrice: "2.50"})
	h.product(t, "B", testutil.ProductOpts{Stock: 5, MinStock: 5})
	h.product(t, "C", testutil.ProductOpts{Stock: 9, MinStock: 5})
	h.product(t, "D", testutil.ProductOpts{Stock: 0, MinStock: 9, Inactive: true})

	items, err := inventory.NewReportUseCase(h.store.Products(), h.store.Movements()).LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Code)
	assert.Equal(t, 4, items[0].RequiredQuantity)
	assert.True(t, decimal.RequireFromString("10").Equal(items[0].EstimatedCost))
	assert.Equal(t, "B", items[1].Code)
	assert.Zero(t, items[1].RequiredQuantity)
}

func TestReportUseCase_Valuation(t *testing.T) {
	h := newHarness(t)
	h.product(t, "A", testutil.ProductOpts{Stock: 10, PurchasePrice: "6.00", SalePrice: "10.00"})
	h.product(t, "B", testutil.ProductOpts{Stock: 2, PurchasePrice: "1.50", SalePrice: "3.00"})
	h.product(t, "C", testutil.ProductOpts{Stock: 100, Inactive: true})

	v, err := inventory.NewReportUseCase(h.store.Products(), h.store.Movements()).Valuation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v.Products)
	assert.Equal(t, 12, v.Units)
	assert.True(t, decimal.RequireFromString("63").Equal(v.PurchaseValue), v.PurchaseValue.String())
	assert.True(t, decimal.RequireFromString("106").Equal(v.SaleValue), v.SaleValue.String())
	assert.True(t, decimal.RequireFromString("43").Equal(v.PotentialProfit), v.PotentialProfit.String())
}

type captureExporter struct{ got *inventory.InventoryReport }

func (e *captureExporter) ExportInventory(_ context.Context, r *inventory.InventoryReport) ([]byte, error) {
	e.got = r
	return []byte("ok"), nil
}

func TestReportUseCase_Export(t *testing.T) {
	h := newHarness(t)
	h.product(t, "A", testutil.ProductOpts{Stock: 1, MinStock: 3, PurchasePrice: "2.00", SalePrice: "3.00"})
	h.product(t, "B", testutil.ProductOpts{Stock: 4, MinStock: 1, PurchasePrice: "1.00", SalePrice: "2.00"})
	h.product(t, "Z", testutil.ProductOpts{Stock: 50, Inactive: true})
	uc := inventory.NewReportUseCase(h.store.Products(), h.store.Movements())

	exp := &captureExporter{}
	out, err := uc.Export(context.Background(), exp)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(out))

	r := exp.got
	require.NotNil(t, r)
	require.Len(t, r.Stock, 2)
	byCode := map[string]inventory.StockRow{}
	for _, row := range r.Stock {
		byCode[row.Code] = row
	}
	assert.True(t, byCode["A"].Low)
	assert.False(t, byCode["B"].Low)
	assert.True(t, decimal.RequireFromString("8").Equal(byCode["B"].SaleValue))
	require.Len(t, r.LowStock, 1)
	assert.Equal(t, 5, r.Valuation.Units)

	_, err = uc.Export(context.Background(), nil)
	assert.Error(t, err)
}
