// Package pricing calcula subtotales, descuentos e impuestos de ventas y compras.
// Todos los montos resultantes se redondean a 2 decimales.
package pricing

import (
	"fmt"

	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate IGV por defecto.
var DefaultTaxRate = decimal.RequireFromString("0.18")

// Line cantidad, precio unitario y descuento de una línea.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// Totals resultado del cálculo; LineSubtotals conserva el orden de entrada.
type Totals struct {
	LineSubtotals []decimal.Decimal
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}

func round(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// LineSubtotal cantidad * precio - descuento de línea.
func LineSubtotal(l Line) (decimal.Decimal, error) {
	if l.Quantity <= 0 {
		return decimal.Zero, domain.Invalid("cantidad", "debe ser mayor a 0")
	}
	if l.UnitPrice.IsNegative() {
		return decimal.Zero, domain.Invalid("precio_unitario", "no puede ser negativo")
	}
	if l.Discount.IsNegative() {
		return decimal.Zero, domain.Invalid("descuento", "no puede ser negativo")
	}
	gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	if l.Discount.GreaterThan(gross) {
		return decimal.Zero, domain.Invalid("descuento", fmt.Sprintf("el descuento %s supera el importe de la línea %s", l.Discount.StringFixed(2), gross.StringFixed(2)))
	}
	return round(gross.Sub(l.Discount)), nil
}

// SaleTotals subtotal = Σ líneas; impuesto = (subtotal - descuento) * tasa; total = subtotal - descuento + impuesto.
func SaleTotals(lines []Line, discount, rate decimal.Decimal) (Totals, error) {
	if discount.IsNegative() {
		return Totals{}, domain.Invalid("descuento", "no puede ser negativo")
	}
	if rate.IsNegative() {
		return Totals{}, domain.Invalid("tasa_impuesto", "no puede ser negativa")
	}
	t := Totals{LineSubtotals: make([]decimal.Decimal, 0, len(lines))}
	subtotal := decimal.Zero
	for _, l := range lines {
		s, err := LineSubtotal(l)
		if err != nil {
			return Totals{}, err
		}
		t.LineSubtotals = append(t.LineSubtotals, s)
		subtotal = subtotal.Add(s)
	}
	discount = round(discount)
	if discount.GreaterThan(subtotal) {
		return Totals{}, domain.Invalid("descuento", "el descuento supera el subtotal")
	}
	taxable := subtotal.Sub(discount)
	t.Subtotal = round(subtotal)
	t.Discount = discount
	t.Tax = round(taxable.Mul(rate))
	t.Total = round(taxable.Add(t.Tax))
	return t, nil
}

// PurchaseTotals subtotal = Σ cantidad * precio; total = subtotal + impuesto. Precio debe ser > 0.
func PurchaseTotals(lines []Line, rate decimal.Decimal) (Totals, error) {
	for _, l := range lines {
		if !l.UnitPrice.IsPositive() {
			return Totals{}, domain.Invalid("precio_unitario", "debe ser mayor a 0")
		}
	}
	return SaleTotals(lines, decimal.Zero, rate)
}
