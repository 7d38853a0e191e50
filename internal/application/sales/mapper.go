package sales

import (
	"context"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/pricing"
)

// CreateFromRequest adapta el request HTTP a CreateSale.
func (c *Coordinator) CreateFromRequest(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	input := SaleInput{
		CustomerID:    in.CustomerID,
		UserID:        userID,
		VoucherType:   in.VoucherType,
		PaymentMethod: in.PaymentMethod,
		Discount:      in.Discount,
		Notes:         in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, SaleLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
		})
	}
	sale, err := c.CreateSale(ctx, input)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

// ToSaleResponse convierte la venta (con detalle si está cargado) a su DTO.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	out := &dto.SaleResponse{
		ID:            s.ID,
		Number:        s.Number,
		CustomerID:    s.CustomerID,
		UserID:        s.UserID,
		Date:          s.Date,
		VoucherType:   s.VoucherType,
		PaymentMethod: s.PaymentMethod,
		State:         string(s.State),
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Tax:           s.Tax,
		Total:         s.Total,
		Notes:         s.Notes,
		VoidedAt:      s.VoidedAt,
		VoidedBy:      s.VoidedBy,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, dto.SaleLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			Subtotal:  l.Subtotal,
		})
	}
	return out
}

// ToSummaryResponse convierte el resumen del período a su DTO.
func ToSummaryResponse(s pricing.SalesSummary, from, to time.Time) dto.SalesSummaryResponse {
	out := dto.SalesSummaryResponse{
		From:            from,
		To:              to,
		Count:           s.Count,
		Total:           s.Total,
		Discounts:       s.Discounts,
		Average:         s.Average,
		MinTicket:       s.MinTicket,
		MaxTicket:       s.MaxTicket,
		ByPaymentMethod: make(map[string]dto.PaymentBreakdownDTO, len(s.ByPaymentMethod)),
	}
	for method, b := range s.ByPaymentMethod {
		out.ByPaymentMethod[method] = dto.PaymentBreakdownDTO{Count: b.Count, Amount: b.Amount.Round(2)}
	}
	return out
}
