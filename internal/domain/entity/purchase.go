package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchasePrefix prefijo de numeración de compras.
const PurchasePrefix = "COM"

// Purchase cabecera de una orden de compra a proveedor.
type Purchase struct {
	ID         string
	Number     string // COM-2026-001
	SupplierID string
	UserID     string
	Date       time.Time
	ReceivedAt *time.Time
	State      PurchaseState
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Notes      string
	Lines      []PurchaseLine
}

// PurchaseLine detalle de compra.
type PurchaseLine struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}
