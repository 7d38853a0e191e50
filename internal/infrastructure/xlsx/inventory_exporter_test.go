package xlsx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/application/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportInventory(t *testing.T) {
	report := &inventory.InventoryReport{
		GeneratedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Stock: []inventory.StockRow{
			{Code: "A-1", Name: "Arroz 5kg", CurrentStock: 2, MinStock: 5,
				PurchasePrice: decimal.RequireFromString("18.50"), SalePrice: decimal.RequireFromString("22.90"),
				PurchaseValue: decimal.RequireFromString("37.00"), SaleValue: decimal.RequireFromString("45.80"), Low: true},
			{Code: "B-1", Name: "Azúcar 1kg", CurrentStock: 40, MinStock: 5,
				PurchasePrice: decimal.RequireFromString("3"), SalePrice: decimal.RequireFromString("4"),
				PurchaseValue: decimal.RequireFromString("120"), SaleValue: decimal.RequireFromString("160")},
		},
		LowStock: []dto.LowStockItemDTO{
			{Code: "A-1", Name: "Arroz 5kg", CurrentStock: 2, MinStock: 5, RequiredQuantity: 3,
				PurchasePrice: decimal.RequireFromString("18.50"), EstimatedCost: decimal.RequireFromString("55.50")},
		},
		Valuation: dto.ValuationResponse{Products: 2, Units: 42},
	}

	out, err := NewInventoryExporter().ExportInventory(context.Background(), report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetStock, SheetLowStock, SheetValuation}, f.GetSheetList())

	cell := func(sheet, ref string) string {
		v, err := f.GetCellValue(sheet, ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Código", cell(SheetStock, "A1"))
	assert.Equal(t, "Azúcar 1kg", cell(SheetStock, "B3"))
	assert.Equal(t, "40", cell(SheetStock, "C3"))
	assert.Equal(t, "SI", cell(SheetStock, "I2"))
	assert.Equal(t, "", cell(SheetStock, "I3"))
	assert.Equal(t, "3", cell(SheetLowStock, "E2"))
	assert.Equal(t, "2024-03-01 10:00", cell(SheetValuation, "B2"))
	assert.Equal(t, "42", cell(SheetValuation, "B4"))
}

func TestExportInventory_Empty(t *testing.T) {
	out, err := NewInventoryExporter().ExportInventory(context.Background(), &inventory.InventoryReport{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = NewInventoryExporter().ExportInventory(context.Background(), nil)
	assert.Error(t, err)
}
