package inventory

import (
	"errors"
	"math"
	"testing"

	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMovement(t *testing.T) {
	p := &entity.Product{ID: "p1", Code: "X", CurrentStock: 10}

	next, err := ApplyMovement(p, entity.MovementTypeOUT, 8, false)
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	next, err = ApplyMovement(p, entity.MovementTypeIN, 5, false)
	require.NoError(t, err)
	assert.Equal(t, 15, next)

	next, err = ApplyMovement(p, entity.MovementTypeADJUSTMENT, 10, true)
	require.NoError(t, err)
	assert.Equal(t, 0, next, "llegar exactamente a cero es válido")

	_, err = ApplyMovement(p, entity.MovementTypeOUT, 11, false)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 10, stockErr.Available)
	assert.Equal(t, 11, stockErr.Requested)

	_, err = ApplyMovement(p, entity.MovementTypeIN, 0, false)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = ApplyMovement(p, "traslado", 1, false)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestApplyMovement_UpperBound(t *testing.T) {
	p := &entity.Product{ID: "p1", Code: "OVF", CurrentStock: 10}

	next, err := ApplyMovement(p, entity.MovementTypeIN, entity.MaxStock-10, false)
	require.NoError(t, err)
	assert.Equal(t, entity.MaxStock, next)

	_, err = ApplyMovement(p, entity.MovementTypeIN, entity.MaxStock-9, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ApplyMovement(p, entity.MovementTypeADJUSTMENT, math.MaxInt64, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ApplyMovement(p, entity.MovementTypeOUT, math.MaxInt64, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestValue(t *testing.T) {
	products := []*entity.Product{
		{Active: true, CurrentStock: 10, PurchasePrice: decimal.NewFromInt(6), SalePrice: decimal.NewFromInt(10)},
		{Active: true, CurrentStock: 5, PurchasePrice: decimal.NewFromInt(2), SalePrice: decimal.NewFromInt(4)},
		{Active: false, CurrentStock: 100, PurchasePrice: decimal.NewFromInt(1), SalePrice: decimal.NewFromInt(1)},
	}
	v := Value(products)
	assert.Equal(t, 2, v.Products)
	assert.Equal(t, 15, v.Units)
	assert.Equal(t, "70.00", v.PurchaseValue.StringFixed(2))
	assert.Equal(t, "120.00", v.SaleValue.StringFixed(2))
	assert.Equal(t, "50.00", v.PotentialProfit.StringFixed(2))
	assert.Equal(t, "41.67", v.MarginPercentage.StringFixed(2))
}

func TestWeightedAverageCost(t *testing.T) {
	tests := []struct {
		name     string
		onHand   int
		current  string
		received int
		unit     string
		want     string
	}{
		{"promedio", 10, "5", 10, "7", "6.00"},
		{"redondeo", 3, "2.50", 4, "3.10", "2.84"},
		{"sin existencias", 0, "9.99", 5, "4", "4.00"},
		{"sin entrada", 8, "6.25", 0, "1", "6.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedAverageCost(tt.onHand, decimal.RequireFromString(tt.current), tt.received, decimal.RequireFromString(tt.unit))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestTurnover(t *testing.T) {
	tests := []struct {
		name          string
		sold, onHand  int
		days          int
		rate, invDays string
	}{
		{"rotación alta", 30, 10, 30, "3.00", "10.00"},
		{"rotación baja", 5, 20, 30, "0.25", "120.00"},
		{"días con decimales", 7, 3, 30, "2.33", "12.86"},
		{"sin stock", 12, 0, 30, "0.00", "0.00"},
		{"sin ventas", 0, 9, 30, "0.00", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, invDays := Turnover(tt.sold, tt.onHand, tt.days)
			assert.Equal(t, tt.rate, rate.StringFixed(2))
			assert.Equal(t, tt.invDays, invDays.StringFixed(2))
		})
	}
}
