package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. InitialStock queda como stock_inicial y stock_actual.
type CreateProductRequest struct {
	Code          string          `json:"code" validate:"required,min=1,max=50"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id" validate:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"min=0"`
	InitialStock  int             `json:"initial_stock" validate:"min=0,max=2147483647"`
	MinStock      int             `json:"min_stock" validate:"min=0,max=2147483647"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	CategoryID    *string          `json:"category_id" validate:"omitempty,min=1"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	MinStock      *int             `json:"min_stock" validate:"omitempty,min=0,max=2147483647"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	InitialStock  int             `json:"initial_stock"`
	CurrentStock  int             `json:"current_stock"`
	MinStock      int             `json:"min_stock"`
	LowStock      bool            `json:"low_stock"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
