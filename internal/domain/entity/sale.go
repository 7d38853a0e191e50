package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de comprobante de venta.
const (
	VoucherBoleta  = "boleta"
	VoucherFactura = "factura"
	VoucherTicket  = "ticket"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
)

// VoucherPrefix prefijo de numeración según el tipo de comprobante.
func VoucherPrefix(voucherType string) (string, bool) {
	switch voucherType {
	case VoucherBoleta:
		return "BOL", true
	case VoucherFactura:
		return "FAC", true
	case VoucherTicket:
		return "TIC", true
	}
	return "", false
}

// IsValidPaymentMethod valida el método de pago.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Sale cabecera de una venta.
type Sale struct {
	ID            string
	Number        string // BOL-2026-0001
	CustomerID    string
	UserID        string
	Date          time.Time
	VoucherType   string
	PaymentMethod string
	State         SaleState
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Notes         string
	VoidedAt      *time.Time
	VoidedBy      string
	Lines         []SaleLine
}

// SaleLine detalle de venta.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Subtotal  decimal.Decimal
}
