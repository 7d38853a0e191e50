package repository

import (
	"context"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
)

// PartyFilter filtro común para clientes, proveedores y categorías.
type PartyFilter struct {
	Search          string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByDocument(ctx context.Context, documentNumber string) (*entity.Customer, error)
	List(ctx context.Context, filter PartyFilter) ([]*entity.Customer, error)
	SetActive(ctx context.Context, id string, active bool) error
}
