package pricing

import (
	"testing"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestSummarizeSales(t *testing.T) {
	sales := []*entity.Sale{
		{State: entity.SaleCompleted, PaymentMethod: entity.PaymentCash, Total: d("10.00"), Discount: d("1.00")},
		{State: entity.SaleCompleted, PaymentMethod: entity.PaymentCard, Total: d("25.50"), Discount: d("0")},
		{State: entity.SaleVoided, PaymentMethod: entity.PaymentCash, Total: d("999.00"), Discount: d("50")},
		{State: entity.SaleCompleted, PaymentMethod: entity.PaymentCash, Total: d("4.75"), Discount: d("0.25")},
	}
	s := SummarizeSales(sales)

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, "40.25", s.Total.StringFixed(2))
	assert.Equal(t, "1.25", s.Discounts.StringFixed(2))
	assert.Equal(t, "13.42", s.Average.StringFixed(2))
	assert.Equal(t, "4.75", s.MinTicket.StringFixed(2))
	assert.Equal(t, "25.50", s.MaxTicket.StringFixed(2))
	assert.Len(t, s.ByPaymentMethod, 2)
	assert.Equal(t, 2, s.ByPaymentMethod[entity.PaymentCash].Count)
	assert.Equal(t, "14.75", s.ByPaymentMethod[entity.PaymentCash].Amount.StringFixed(2))
	assert.Equal(t, 1, s.ByPaymentMethod[entity.PaymentCard].Count)
}

func TestSummarizeSales_Empty(t *testing.T) {
	s := SummarizeSales(nil)
	assert.Zero(t, s.Count)
	assert.True(t, s.Total.IsZero())
	assert.True(t, s.Average.IsZero())
	assert.True(t, s.MinTicket.IsZero())
	assert.Empty(t, s.ByPaymentMethod)
}

func TestSummarizePurchases(t *testing.T) {
	s := SummarizePurchases([]*entity.Purchase{
		{State: entity.PurchaseReceived, Total: d("118.00")},
		{State: entity.PurchaseReceived, Total: d("59.01")},
		{State: entity.PurchasePending, Total: d("300.00")},
		{State: entity.PurchaseCancelled, Total: d("80.00")},
	})
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 2, s.Received)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.Cancelled)
	assert.Equal(t, "177.01", s.Spent.StringFixed(2))
	assert.Equal(t, "88.51", s.Average.StringFixed(2))

	empty := SummarizePurchases(nil)
	assert.True(t, empty.Average.IsZero())
}
