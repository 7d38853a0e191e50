package purchasing

import (
	"context"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/pricing"
)

// CreateFromRequest adapta el request HTTP a CreatePurchase.
func (c *Coordinator) CreateFromRequest(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	input := PurchaseInput{
		SupplierID: in.SupplierID,
		UserID:     userID,
		Date:       in.Date,
		Notes:      in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, PurchaseLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	p, err := c.CreatePurchase(ctx, input)
	if err != nil {
		return nil, err
	}
	return ToPurchaseResponse(p), nil
}

// ToPurchaseResponse convierte la compra a su DTO.
func ToPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	if p == nil {
		return nil
	}
	out := &dto.PurchaseResponse{
		ID:         p.ID,
		Number:     p.Number,
		SupplierID: p.SupplierID,
		UserID:     p.UserID,
		Date:       p.Date,
		ReceivedAt: p.ReceivedAt,
		State:      string(p.State),
		Closed:     p.State.IsTerminal(),
		Subtotal:   p.Subtotal,
		Tax:        p.Tax,
		Total:      p.Total,
		Notes:      p.Notes,
	}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, dto.PurchaseLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return out
}

// ToSummaryResponse convierte el resumen del período a su DTO.
func ToSummaryResponse(s pricing.PurchasesSummary, from, to time.Time) dto.PurchasesSummaryResponse {
	return dto.PurchasesSummaryResponse{
		From:      from,
		To:        to,
		Count:     s.Count,
		Received:  s.Received,
		Pending:   s.Pending,
		Cancelled: s.Cancelled,
		Spent:     s.Spent,
		Average:   s.Average,
	}
}
