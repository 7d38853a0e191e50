package pricing

import (
	"errors"
	"testing"

	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSaleTotals(t *testing.T) {
	lines := []Line{
		{Quantity: 2, UnitPrice: d("25.00")},
		{Quantity: 1, UnitPrice: d("55.00"), Discount: d("5.00")},
	}
	got, err := SaleTotals(lines, d("10"), DefaultTaxRate)
	require.NoError(t, err)
	assert.True(t, d("50.00").Equal(got.LineSubtotals[0]))
	assert.True(t, d("50.00").Equal(got.LineSubtotals[1]))
	assert.True(t, d("100.00").Equal(got.Subtotal), "subtotal %s", got.Subtotal)
	assert.True(t, d("10.00").Equal(got.Discount))
	assert.True(t, d("16.20").Equal(got.Tax), "impuesto %s", got.Tax)
	assert.True(t, d("106.20").Equal(got.Total), "total %s", got.Total)
}

func TestSaleTotals_RoundsToCents(t *testing.T) {
	got, err := SaleTotals([]Line{{Quantity: 3, UnitPrice: d("3.33")}}, decimal.Zero, DefaultTaxRate)
	require.NoError(t, err)
	// 9.99 * 0.18 = 1.7982
	assert.Equal(t, "1.80", got.Tax.StringFixed(2))
	assert.Equal(t, "11.79", got.Total.StringFixed(2))
}

func TestSaleTotals_Errors(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		discount decimal.Decimal
	}{
		{"cantidad cero", []Line{{Quantity: 0, UnitPrice: d("1")}}, decimal.Zero},
		{"precio negativo", []Line{{Quantity: 1, UnitPrice: d("-1")}}, decimal.Zero},
		{"descuento de línea mayor al importe", []Line{{Quantity: 1, UnitPrice: d("5"), Discount: d("6")}}, decimal.Zero},
		{"descuento global negativo", []Line{{Quantity: 1, UnitPrice: d("5")}}, d("-1")},
		{"descuento global mayor al subtotal", []Line{{Quantity: 1, UnitPrice: d("5")}}, d("5.01")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SaleTotals(tt.lines, tt.discount, DefaultTaxRate)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestPurchaseTotals(t *testing.T) {
	got, err := PurchaseTotals([]Line{
		{Quantity: 20, UnitPrice: d("2.50")},
		{Quantity: 5, UnitPrice: d("10")},
	}, DefaultTaxRate)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "18.00", got.Tax.StringFixed(2))
	assert.Equal(t, "118.00", got.Total.StringFixed(2))

	_, err = PurchaseTotals([]Line{{Quantity: 1, UnitPrice: decimal.Zero}}, DefaultTaxRate)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "precio cero no es válido en compras")
}
