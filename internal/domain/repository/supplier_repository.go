package repository

import (
	"context"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	GetByRUC(ctx context.Context, ruc string) (*entity.Supplier, error)
	List(ctx context.Context, filter PartyFilter) ([]*entity.Supplier, error)
	SetActive(ctx context.Context, id string, active bool) error
}
