package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, tipo_documento, numero_documento, nombres, apellidos, email, telefono, direccion,
	activo, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `INSERT INTO clientes (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.DocumentType, c.DocumentNumber, c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
		c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return dbError("insert customer", err)
	}
	return nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.DocumentType, &c.DocumentNumber, &c.FirstName, &c.LastName, &c.Email,
		&c.Phone, &c.Address, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) getOne(ctx context.Context, where string, arg any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM clientes WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get customer", err)
	}
	return c, nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByDocument obtiene un cliente por número de documento.
func (r *CustomerRepo) GetByDocument(ctx context.Context, documentNumber string) (*entity.Customer, error) {
	return r.getOne(ctx, "numero_documento = $1", documentNumber)
}

// List busca por nombre, apellido o documento.
func (r *CustomerRepo) List(ctx context.Context, f repository.PartyFilter) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx, `SELECT `+customerColumns+` FROM clientes
		WHERE ($1 OR activo)
		  AND ($2 = '' OR nombres ILIKE $3 OR apellidos ILIKE $3 OR numero_documento ILIKE $3)
		ORDER BY nombres, apellidos
		LIMIT $4 OFFSET $5`,
		f.IncludeInactive, f.Search, likePattern(f.Search), f.Limit, f.Offset,
	)
	if err != nil {
		return nil, dbError("list customers", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, dbError("scan customer", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list customers", err)
	}
	return list, nil
}

// SetActive baja o reactivación lógica.
func (r *CustomerRepo) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, r.q, "clientes", id, active)
}
