package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// StockRow existencias y valorización de un producto activo.
type StockRow struct {
	Code          string
	Name          string
	CurrentStock  int
	MinStock      int
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	PurchaseValue decimal.Decimal
	SaleValue     decimal.Decimal
	Low           bool
}

// InventoryReport foto del inventario para exportar.
type InventoryReport struct {
	GeneratedAt time.Time
	Stock       []StockRow
	LowStock    []dto.LowStockItemDTO
	Valuation   dto.ValuationResponse
}

// ReportExporter serializa el reporte (hoja de cálculo, etc.).
type ReportExporter interface {
	ExportInventory(ctx context.Context, report *InventoryReport) ([]byte, error)
}

// Snapshot arma existencias, stock bajo y valorización a partir de una sola lectura del catálogo.
func (uc *ReportUseCase) Snapshot(ctx context.Context) (*InventoryReport, error) {
	products, err := uc.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	low, err := uc.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]StockRow, 0, len(products))
	for _, p := range products {
		if !p.Active {
			continue
		}
		units := decimal.NewFromInt(int64(p.CurrentStock))
		rows = append(rows, StockRow{
			Code:          p.Code,
			Name:          p.Name,
			CurrentStock:  p.CurrentStock,
			MinStock:      p.MinStock,
			PurchasePrice: p.PurchasePrice,
			SalePrice:     p.SalePrice,
			PurchaseValue: p.PurchasePrice.Mul(units).Round(2),
			SaleValue:     p.SalePrice.Mul(units).Round(2),
			Low:           p.IsLowStock(),
		})
	}
	return &InventoryReport{
		GeneratedAt: time.Now().UTC(),
		Stock:       rows,
		LowStock:    low,
		Valuation:   *toValuationResponse(inventory.Value(products)),
	}, nil
}

// Export genera el reporte con exp.
func (uc *ReportUseCase) Export(ctx context.Context, exp ReportExporter) ([]byte, error) {
	if exp == nil {
		return nil, errors.New("exportador de reportes no configurado")
	}
	report, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return exp.ExportInventory(ctx, report)
}
