package inventory

import "github.com/shopspring/decimal"

// Turnover tasa de rotación de un período: unidades vendidas / stock actual, y los días de
// inventario que representa (días del período / tasa). Sin stock o sin ventas ambos son cero.
func Turnover(sold, onHand, days int) (rate, daysOfInventory decimal.Decimal) {
	if sold <= 0 || onHand <= 0 {
		return decimal.Zero, decimal.Zero
	}
	r := decimal.NewFromInt(int64(sold)).Div(decimal.NewFromInt(int64(onHand)))
	return r.Round(2), decimal.NewFromInt(int64(days)).Div(r).Round(2)
}
