// Package inventory contiene la aritmética de stock y la valorización, sin E/S.
package inventory

import (
	"fmt"

	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ApplyMovement calcula el stock resultante de aplicar un movimiento.
// decrease solo aplica a ajustes. Devuelve InsufficientStockError si el resultado es negativo.
func ApplyMovement(p *entity.Product, movementType string, quantity int, decrease bool) (int, error) {
	if quantity <= 0 {
		return 0, domain.Invalid("cantidad", "debe ser mayor a 0")
	}
	if quantity > entity.MaxStock {
		return 0, domain.Invalid("cantidad", fmt.Sprintf("no puede superar %d", entity.MaxStock))
	}
	var add bool
	switch movementType {
	case entity.MovementTypeIN:
		add = true
	case entity.MovementTypeOUT:
		add = false
	case entity.MovementTypeADJUSTMENT:
		add = !decrease
	default:
		return 0, domain.Invalid("tipo_movimiento", "debe ser entrada, salida o ajuste")
	}
	next := p.CurrentStock - quantity
	if add {
		if quantity > entity.MaxStock-p.CurrentStock {
			return 0, domain.Invalid("cantidad", fmt.Sprintf("el stock resultante superaría %d", entity.MaxStock))
		}
		next = p.CurrentStock + quantity
	}
	if next < 0 {
		return 0, &domain.InsufficientStockError{
			ProductID:   p.ID,
			ProductCode: p.Code,
			Available:   p.CurrentStock,
			Requested:   quantity,
		}
	}
	return next, nil
}

// Valuation valorización del inventario a precio de compra y de venta.
type Valuation struct {
	Products         int
	Units            int
	PurchaseValue    decimal.Decimal
	SaleValue        decimal.Decimal
	PotentialProfit  decimal.Decimal
	MarginPercentage decimal.Decimal
}

// Value valoriza los productos activos.
func Value(products []*entity.Product) Valuation {
	v := Valuation{PurchaseValue: decimal.Zero, SaleValue: decimal.Zero}
	for _, p := range products {
		if !p.Active {
			continue
		}
		units := decimal.NewFromInt(int64(p.CurrentStock))
		v.Products++
		v.Units += p.CurrentStock
		v.PurchaseValue = v.PurchaseValue.Add(p.PurchasePrice.Mul(units))
		v.SaleValue = v.SaleValue.Add(p.SalePrice.Mul(units))
	}
	v.PurchaseValue = v.PurchaseValue.Round(2)
	v.SaleValue = v.SaleValue.Round(2)
	v.PotentialProfit = v.SaleValue.Sub(v.PurchaseValue)
	v.MarginPercentage = decimal.Zero
	if v.SaleValue.IsPositive() {
		v.MarginPercentage = v.PotentialProfit.Div(v.SaleValue).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return v
}
