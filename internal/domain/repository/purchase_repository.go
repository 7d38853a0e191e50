package repository

import (
	"context"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
)

// PurchaseFilter filtros de listado de compras; se combinan con AND.
type PurchaseFilter struct {
	State      entity.PurchaseState
	SupplierID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// PurchaseRepository puerto de persistencia de compras (cabecera + detalle).
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	UpdateState(ctx context.Context, id string, state entity.PurchaseState, receivedAt *time.Time) error
	List(ctx context.Context, filter PurchaseFilter) ([]*entity.Purchase, error)
	LastNumber(ctx context.Context, series string) (string, error)
}
