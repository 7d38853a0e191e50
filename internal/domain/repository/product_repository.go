package repository

import (
	"context"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	Search          string // código o nombre
	CategoryID      string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Update nunca toca las columnas de stock: solo UpdateStock lo hace.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, id string, stock int) error
	UpdatePurchasePrice(ctx context.Context, id string, price decimal.Decimal) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
}
