package purchasing

import (
	"context"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/pricing"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

// Summary compras con fecha en [from, to] por estado; el gasto cuenta solo las recibidas.
func (c *Coordinator) Summary(ctx context.Context, from, to time.Time) (pricing.PurchasesSummary, error) {
	if to.Before(from) {
		return pricing.PurchasesSummary{}, domain.Invalid("hasta", "no puede ser anterior a desde")
	}
	var all []*entity.Purchase
	for offset := 0; ; offset += MaxListLimit {
		page, err := c.purchaseRepo.List(ctx, repository.PurchaseFilter{From: &from, To: &to, Limit: MaxListLimit, Offset: offset})
		if err != nil {
			return pricing.PurchasesSummary{}, err
		}
		all = append(all, page...)
		if len(page) < MaxListLimit {
			break
		}
	}
	return pricing.SummarizePurchases(all), nil
}
