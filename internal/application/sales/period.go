package sales

import (
	"context"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/pricing"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

// completedBetween recorre por páginas las ventas completadas con fecha en [from, to].
func (c *Coordinator) completedBetween(ctx context.Context, from, to time.Time) ([]*entity.Sale, error) {
	var all []*entity.Sale
	for offset := 0; ; offset += MaxListLimit {
		page, err := c.saleRepo.List(ctx, repository.SaleFilter{
			State:  entity.SaleCompleted,
			From:   &from,
			To:     &to,
			Limit:  MaxListLimit,
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < MaxListLimit {
			return all, nil
		}
	}
}

// Summary totales, descuentos, ticket promedio/mínimo/máximo y desglose por método de pago
// de las ventas completadas en [from, to].
func (c *Coordinator) Summary(ctx context.Context, from, to time.Time) (pricing.SalesSummary, error) {
	if to.Before(from) {
		return pricing.SalesSummary{}, domain.Invalid("hasta", "no puede ser anterior a desde")
	}
	list, err := c.completedBetween(ctx, from, to)
	if err != nil {
		return pricing.SalesSummary{}, err
	}
	return pricing.SummarizeSales(list), nil
}

// SalesOfDay ventas completadas del día calendario (UTC) de day, más recientes primero.
func (c *Coordinator) SalesOfDay(ctx context.Context, day time.Time) ([]*entity.Sale, error) {
	day = day.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return c.completedBetween(ctx, start, start.Add(24*time.Hour-time.Nanosecond))
}

// Today ventas completadas del día en curso.
func (c *Coordinator) Today(ctx context.Context) ([]*entity.Sale, error) {
	return c.SalesOfDay(ctx, c.now())
}
