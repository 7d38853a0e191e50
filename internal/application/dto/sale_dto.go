package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. UnitPrice cero toma el precio de venta del producto.
type SaleLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0,max=2147483647"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
	Discount  decimal.Decimal `json:"discount" validate:"min=0"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID    string            `json:"customer_id" validate:"required"`
	VoucherType   string            `json:"voucher_type" validate:"required,oneof=boleta factura ticket"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=efectivo tarjeta transferencia"`
	Discount      decimal.Decimal   `json:"discount" validate:"min=0"`
	Notes         string            `json:"notes" validate:"max=500"`
	Lines         []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SaleLineResponse detalle de venta.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	CustomerID    string             `json:"customer_id"`
	UserID        string             `json:"user_id"`
	Date          time.Time          `json:"date"`
	VoucherType   string             `json:"voucher_type"`
	PaymentMethod string             `json:"payment_method"`
	State         string             `json:"state"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	Notes         string             `json:"notes,omitempty"`
	VoidedAt      *time.Time         `json:"voided_at,omitempty"`
	VoidedBy      string             `json:"voided_by,omitempty"`
	Lines         []SaleLineResponse `json:"lines,omitempty"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// PaymentBreakdownDTO ventas y monto por método de pago.
type PaymentBreakdownDTO struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// SalesSummaryResponse estadísticas de ventas completadas de un período.
type SalesSummaryResponse struct {
	From            time.Time                      `json:"from"`
	To              time.Time                      `json:"to"`
	Count           int                            `json:"count"`
	Total           decimal.Decimal                `json:"total"`
	Discounts       decimal.Decimal                `json:"discounts"`
	Average         decimal.Decimal                `json:"average"`
	MinTicket       decimal.Decimal                `json:"min_ticket"`
	MaxTicket       decimal.Decimal                `json:"max_ticket"`
	ByPaymentMethod map[string]PaymentBreakdownDTO `json:"by_payment_method"`
}
