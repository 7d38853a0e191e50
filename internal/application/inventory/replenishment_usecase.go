package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/inventory"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReportUseCase reportes de inventario de solo lectura: stock bajo, valorización, rotación y productos sin movimiento.
type ReportUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(productRepo repository.ProductRepository, movementRepo repository.MovementRepository) *ReportUseCase {
	return &ReportUseCase{productRepo: productRepo, movementRepo: movementRepo, now: utcNow}
}

// LowStock productos activos con stock_actual <= stock_minimo, mayor déficit primero.
func (uc *ReportUseCase) LowStock(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	products, err := uc.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemDTO, 0, len(products))
	for _, p := range products {
		required := p.Deficit()
		items = append(items, dto.LowStockItemDTO{
			ProductID:        p.ID,
			Code:             p.Code,
			Name:             p.Name,
			CurrentStock:     p.CurrentStock,
			MinStock:         p.MinStock,
			RequiredQuantity: required,
			PurchasePrice:    p.PurchasePrice,
			EstimatedCost:    p.PurchasePrice.Mul(decimal.NewFromInt(int64(required))).Round(2),
		})
	}
	// Desempate por código.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].RequiredQuantity != items[j].RequiredQuantity {
			return items[i].RequiredQuantity > items[j].RequiredQuantity
		}
		return items[i].Code < items[j].Code
	})
	return items, nil
}

// Valuation valoriza el inventario activo a precio de compra y de venta.
func (uc *ReportUseCase) Valuation(ctx context.Context) (*dto.ValuationResponse, error) {
	products, err := uc.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	return toValuationResponse(inventory.Value(products)), nil
}

// activeProducts recorre el catálogo activo por páginas.
func (uc *ReportUseCase) activeProducts(ctx context.Context) ([]*entity.Product, error) {
	const pageSize = 500
	var products []*entity.Product
	for offset := 0; ; offset += pageSize {
		page, err := uc.productRepo.List(ctx, repository.ProductFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		products = append(products, page...)
		if len(page) < pageSize {
			return products, nil
		}
	}
}

func toValuationResponse(v inventory.Valuation) *dto.ValuationResponse {
	return &dto.ValuationResponse{
		Products:         v.Products,
		Units:            v.Units,
		PurchaseValue:    v.PurchaseValue,
		SaleValue:        v.SaleValue,
		PotentialProfit:  v.PotentialProfit,
		MarginPercentage: v.MarginPercentage,
	}
}
