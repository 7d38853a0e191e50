package repository

import (
	"context"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
)

// MovementFilter filtros del historial (kardex) de un producto.
type MovementFilter struct {
	From   *time.Time
	To     *time.Time
	Type   string
	Limit  int
	Offset int
}

// ProductOutflow salidas agregadas de un producto en un período.
type ProductOutflow struct {
	ProductID string
	Quantity  int
	Movements int
}

// MovementRepository puerto del kardex. Solo inserción y lectura: los movimientos no se modifican.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// ListByProduct ordena del más reciente al más antiguo.
	ListByProduct(ctx context.Context, productID string, filter MovementFilter) ([]*entity.Movement, error)
	ListByReference(ctx context.Context, referenceID string) ([]*entity.Movement, error)
	// SumDelta Σ (stock_nuevo - stock_anterior) del producto.
	SumDelta(ctx context.Context, productID string) (int, error)
	// SumOutflows agrega los movimientos de salida con fecha en [from, to].
	SumOutflows(ctx context.Context, from, to time.Time) ([]ProductOutflow, error)
	// LastMovementDates fecha del último movimiento de cada producto con historial.
	LastMovementDates(ctx context.Context) (map[string]time.Time, error)
}
