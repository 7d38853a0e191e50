package pricing

import (
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PaymentBreakdown ventas y monto cobrado con un método de pago.
type PaymentBreakdown struct {
	Count  int
	Amount decimal.Decimal
}

// SalesSummary estadísticas de las ventas completadas de un período.
type SalesSummary struct {
	Count           int
	Total           decimal.Decimal
	Discounts       decimal.Decimal
	Average         decimal.Decimal
	MinTicket       decimal.Decimal
	MaxTicket       decimal.Decimal
	ByPaymentMethod map[string]PaymentBreakdown
}

// SummarizeSales agrega las ventas completadas; las anuladas no cuentan.
func SummarizeSales(sales []*entity.Sale) SalesSummary {
	s := SalesSummary{
		Total:           decimal.Zero,
		Discounts:       decimal.Zero,
		Average:         decimal.Zero,
		MinTicket:       decimal.Zero,
		MaxTicket:       decimal.Zero,
		ByPaymentMethod: make(map[string]PaymentBreakdown),
	}
	for _, sale := range sales {
		if sale.State != entity.SaleCompleted {
			continue
		}
		if s.Count == 0 || sale.Total.LessThan(s.MinTicket) {
			s.MinTicket = sale.Total
		}
		if s.Count == 0 || sale.Total.GreaterThan(s.MaxTicket) {
			s.MaxTicket = sale.Total
		}
		s.Count++
		s.Total = s.Total.Add(sale.Total)
		s.Discounts = s.Discounts.Add(sale.Discount)
		b := s.ByPaymentMethod[sale.PaymentMethod]
		b.Count++
		b.Amount = b.Amount.Add(sale.Total)
		s.ByPaymentMethod[sale.PaymentMethod] = b
	}
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
	}
	s.Total = round(s.Total)
	s.Discounts = round(s.Discounts)
	s.Average = round(s.Average)
	return s
}

// PurchasesSummary estadísticas de compras de un período. Spent y Average cuentan solo las recibidas.
type PurchasesSummary struct {
	Count     int
	Received  int
	Pending   int
	Cancelled int
	Spent     decimal.Decimal
	Average   decimal.Decimal
}

// SummarizePurchases agrega compras por estado.
func SummarizePurchases(purchases []*entity.Purchase) PurchasesSummary {
	s := PurchasesSummary{Spent: decimal.Zero, Average: decimal.Zero}
	for _, p := range purchases {
		s.Count++
		switch p.State {
		case entity.PurchaseReceived:
			s.Received++
			s.Spent = s.Spent.Add(p.Total)
		case entity.PurchasePending:
			s.Pending++
		case entity.PurchaseCancelled:
			s.Cancelled++
		}
	}
	if s.Received > 0 {
		s.Average = round(s.Spent.Div(decimal.NewFromInt(int64(s.Received))))
	}
	s.Spent = round(s.Spent)
	return s
}
