package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categorias (id, nombre, descripcion, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Description, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return dbError("insert category", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var c entity.Category
	err := r.q.QueryRow(ctx, `
		SELECT id, nombre, descripcion, activo, created_at, updated_at
		FROM categorias WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get category", err)
	}
	return &c, nil
}

// List categorías por nombre.
func (r *CategoryRepo) List(ctx context.Context, f repository.PartyFilter) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, nombre, descripcion, activo, created_at, updated_at
		FROM categorias
		WHERE ($1 OR activo) AND ($2 = '' OR nombre ILIKE $3)
		ORDER BY nombre
		LIMIT $4 OFFSET $5`,
		f.IncludeInactive, f.Search, likePattern(f.Search), f.Limit, f.Offset,
	)
	if err != nil {
		return nil, dbError("list categories", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, dbError("scan category", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list categories", err)
	}
	return list, nil
}

// SetActive baja o reactivación lógica.
func (r *CategoryRepo) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, r.q, "categorias", id, active)
}

func setActive(ctx context.Context, q Querier, table, id string, active bool) error {
	_, err := q.Exec(ctx, `UPDATE `+table+` SET activo = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return dbError("set active "+table, err)
	}
	return nil
}
