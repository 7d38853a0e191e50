package repository

import (
	"context"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
)

// SaleFilter filtros de listado de ventas; se combinan con AND.
type SaleFilter struct {
	State      entity.SaleState
	CustomerID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// SaleRepository puerto de persistencia de ventas (cabecera + detalle).
type SaleRepository interface {
	// Create inserta cabecera y líneas.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	MarkVoided(ctx context.Context, id string, voidedAt time.Time, voidedBy string) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	// LastNumber último número emitido de la serie (p. ej. "BOL-2026-"); vacío si no hay.
	LastNumber(ctx context.Context, series string) (string, error)
}
