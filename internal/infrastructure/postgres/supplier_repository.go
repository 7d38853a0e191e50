package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, ruc, razon_social, contacto, email, telefono, direccion, activo, created_at, updated_at`

// SupplierRepo implementación de SupplierRepository.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `INSERT INTO proveedores (`+supplierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.RUC, s.BusinessName, s.Contact, s.Email, s.Phone, s.Address, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return dbError("insert supplier", err)
	}
	return nil
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.RUC, &s.BusinessName, &s.Contact, &s.Email, &s.Phone, &s.Address,
		&s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) getOne(ctx context.Context, where string, arg any) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM proveedores WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get supplier", err)
	}
	return s, nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByRUC obtiene un proveedor por RUC.
func (r *SupplierRepo) GetByRUC(ctx context.Context, ruc string) (*entity.Supplier, error) {
	return r.getOne(ctx, "ruc = $1", ruc)
}

// List busca por razón social o RUC.
func (r *SupplierRepo) List(ctx context.Context, f repository.PartyFilter) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM proveedores
		WHERE ($1 OR activo) AND ($2 = '' OR razon_social ILIKE $3 OR ruc ILIKE $3)
		ORDER BY razon_social
		LIMIT $4 OFFSET $5`,
		f.IncludeInactive, f.Search, likePattern(f.Search), f.Limit, f.Offset,
	)
	if err != nil {
		return nil, dbError("list suppliers", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, dbError("scan supplier", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list suppliers", err)
	}
	return list, nil
}

// SetActive baja o reactivación lógica.
func (r *SupplierRepo) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, r.q, "proveedores", id, active)
}
