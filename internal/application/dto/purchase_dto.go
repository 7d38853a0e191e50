package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de compra.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0,max=2147483647"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gt=0"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required"`
	Date       *time.Time            `json:"date"`
	Notes      string                `json:"notes" validate:"max=500"`
	Lines      []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseLineResponse detalle de compra.
type PurchaseLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	Number     string                 `json:"number"`
	SupplierID string                 `json:"supplier_id"`
	UserID     string                 `json:"user_id"`
	Date       time.Time              `json:"date"`
	ReceivedAt *time.Time             `json:"received_at,omitempty"`
	State      string                 `json:"state"`
	Closed     bool                   `json:"closed"` // recibida o cancelada: ya no admite operaciones
	Subtotal   decimal.Decimal        `json:"subtotal"`
	Tax        decimal.Decimal        `json:"tax"`
	Total      decimal.Decimal        `json:"total"`
	Notes      string                 `json:"notes,omitempty"`
	Lines      []PurchaseLineResponse `json:"lines,omitempty"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// PurchasesSummaryResponse estadísticas de compras de un período.
type PurchasesSummaryResponse struct {
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Count     int             `json:"count"`
	Received  int             `json:"received"`
	Pending   int             `json:"pending"`
	Cancelled int             `json:"cancelled"`
	Spent     decimal.Decimal `json:"spent"`
	Average   decimal.Decimal `json:"average"`
}
