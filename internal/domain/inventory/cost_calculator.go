package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una entrada de mercadería:
// (onHand*currentCost + received*unitCost) / (onHand + received), redondeado a 2 decimales.
// Sin existencias previas el costo es el de la entrada; sin entrada se conserva el actual.
func WeightedAverageCost(onHand int, currentCost decimal.Decimal, received int, unitCost decimal.Decimal) decimal.Decimal {
	if received <= 0 {
		return currentCost
	}
	if onHand <= 0 {
		return unitCost.Round(2)
	}
	units := decimal.NewFromInt(int64(onHand + received))
	value := currentCost.Mul(decimal.NewFromInt(int64(onHand))).
		Add(unitCost.Mul(decimal.NewFromInt(int64(received))))
	return value.Div(units).Round(2)
}
