package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Delta positivo suma, negativo resta; nunca cero.
type AdjustStockRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Delta     int    `json:"delta" validate:"required,ne=0,min=-2147483647,max=2147483647"`
	Reason    string `json:"reason" validate:"required,max=100"`
	Notes     string `json:"notes" validate:"max=500"`
}

// PhysicalCountRequest body para POST /api/inventory/counts (conteo físico).
type PhysicalCountRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Counted   int    `json:"counted" validate:"min=0,max=2147483647"`
	Reason    string `json:"reason" validate:"max=100"`
	Notes     string `json:"notes" validate:"max=500"`
}

// MovementResponse registro del kardex.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Delta       int       `json:"delta"`
	Reason      string    `json:"reason"`
	ReferenceID string    `json:"reference_id,omitempty"`
	StockBefore int       `json:"stock_before"`
	StockAfter  int       `json:"stock_after"`
	UserID      string    `json:"user_id"`
	Notes       string    `json:"notes,omitempty"`
	Date        time.Time `json:"date"`
}

// MovementListResponse página del kardex.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockResponse stock actual de un producto.
type StockResponse struct {
	ProductID    string `json:"product_id"`
	CurrentStock int    `json:"current_stock"`
}

// ReconciliationResponse comparación entre stock_actual y el kardex.
type ReconciliationResponse struct {
	ProductID      string `json:"product_id"`
	InitialStock   int    `json:"initial_stock"`
	MovementsDelta int    `json:"movements_delta"`
	Expected       int    `json:"expected"`
	Actual         int    `json:"actual"`
	Drift          int    `json:"drift"`
	Consistent     bool   `json:"consistent"`
}

// LowStockItemDTO producto con stock_actual <= stock_minimo.
type LowStockItemDTO struct {
	ProductID        string          `json:"product_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	CurrentStock     int             `json:"current_stock"`
	MinStock         int             `json:"min_stock"`
	RequiredQuantity int             `json:"required_quantity"` // MinStock - CurrentStock
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	EstimatedCost    decimal.Decimal `json:"estimated_cost"` // RequiredQuantity * PurchasePrice
}

// ValuationResponse valorización del inventario.
type ValuationResponse struct {
	Products         int             `json:"products"`
	Units            int             `json:"units"`
	PurchaseValue    decimal.Decimal `json:"purchase_value"`
	SaleValue        decimal.Decimal `json:"sale_value"`
	PotentialProfit  decimal.Decimal `json:"potential_profit"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"`
}

// RotationItemDTO rotación de un producto: unidades vendidas en el período sobre el stock actual.
type RotationItemDTO struct {
	ProductID       string          `json:"product_id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	CurrentStock    int             `json:"current_stock"`
	SoldQuantity    int             `json:"sold_quantity"`
	Outflows        int             `json:"outflows"` // número de salidas
	TurnoverRate    decimal.Decimal `json:"turnover_rate"`
	DaysOfInventory decimal.Decimal `json:"days_of_inventory"`
}

// RotationResponse reporte de rotación, mayor tasa primero.
type RotationResponse struct {
	Days  int               `json:"days"`
	From  time.Time         `json:"from"`
	To    time.Time         `json:"to"`
	Items []RotationItemDTO `json:"items"`
}

// IdleProductDTO producto activo sin movimientos desde Since.
type IdleProductDTO struct {
	ProductID      string          `json:"product_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	CategoryID     string          `json:"category_id"`
	CurrentStock   int             `json:"current_stock"`
	InventoryValue decimal.Decimal `json:"inventory_value"` // CurrentStock * SalePrice
	LastMovement   *time.Time      `json:"last_movement,omitempty"`
}

// IdleProductsResponse productos sin movimiento, los más antiguos primero.
type IdleProductsResponse struct {
	Days  int              `json:"days"`
	Since time.Time        `json:"since"`
	Items []IdleProductDTO `json:"items"`
}
