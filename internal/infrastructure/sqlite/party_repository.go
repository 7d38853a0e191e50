package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// scanTimes convierte created_at/updated_at tras el Scan.
func scanTimes(created, updated string, c, u *time.Time) error {
	var err error
	if *c, err = parseTime(created); err != nil {
		return err
	}
	*u, err = parseTime(updated)
	return err
}

// CategoryRepo categorías sobre SQLite.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO categorias (id, nombre, descripcion, activo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.Active, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return dbError("insert category", err)
	}
	return nil
}

func scanCategory(row scanner) (*entity.Category, error) {
	var c entity.Category
	var created, updated string
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &created, &updated); err != nil {
		return nil, err
	}
	if err := scanTimes(created, updated, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID obtiene una categoría.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRowContext(ctx,
		`SELECT id, nombre, descripcion, activo, created_at, updated_at FROM categorias WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get category", err)
	}
	return c, nil
}

// List categorías por nombre.
func (r *CategoryRepo) List(ctx context.Context, f repository.PartyFilter) ([]*entity.Category, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, nombre, descripcion, activo, created_at, updated_at
		FROM categorias
		WHERE (? OR activo = 1) AND (? = '' OR nombre LIKE ? ESCAPE '\')
		ORDER BY nombre LIMIT ? OFFSET ?`,
		f.IncludeInactive, f.Search, likePattern(f.Search), f.Limit, f.Offset)
	if err != nil {
		return nil, dbError("list categories", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, dbError("scan category", err)
		}
		list = append(list, c)
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

const customerColumns = `id, tipo_documento, numero_documento, nombres, apellidos, email, telefono, direccion,
	activo, created_at, updated_at`

// CustomerRepo clientes sobre SQLite.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO clientes (`+customerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.DocumentType, c.DocumentNumber, c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
		c.Active, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return dbError("insert customer", err)
	}
	return nil
}

func scanCustomer(row scanner) (*entity.Customer, error) {
	var c entity.Customer
	var created, updated string
	if err := row.Scan(&c.ID, &c.DocumentType, &c.DocumentNumber, &c.FirstName, &c.LastName, &c.Email,
		&c.Phone, &c.Address, &c.Active, &created, &updated); err != nil {
		return nil, err
	}
	if err := scanTimes(created, updated, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) getOne(ctx context.Context, where string, arg any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM clientes WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get customer", err)
	}
	return c, nil
}

// GetByID obtiene un cliente.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByDocument obtiene un cliente por documento.
func (r *CustomerRepo) GetByDocument(ctx context.Context, documentNumber string) (*entity.Customer, error) {
	return r.getOne(ctx, "numero_documento = ?", documentNumber)
}

// List busca por nombre, apellido o documento.
func (r *CustomerRepo) List(ctx context.Context, f repository.PartyFilter) ([]*entity.Customer, error) {
	p := likePattern(f.Search)
	rows, err := r.q.QueryContext(ctx, `SELECT `+customerColumns+` FROM clientes
		WHERE (? OR activo = 1)
		  AND (? = '' OR nombres LIKE ? ESCAPE '\' OR apellidos LIKE ? ESCAPE '\' OR numero_documento LIKE ? ESCAPE '\')
		ORDER BY nombres, apellidos LIMIT ? OFFSET ?`,
		f.IncludeInactive, f.Search, p, p, p, f.Limit, f.Offset)
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

const supplierColumns = `id, ruc, razon_social, contacto, email, telefono, direccion, activo, created_at, updated_at`

// SupplierRepo proveedores sobre SQLite.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO proveedores (`+supplierColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.RUC, s.BusinessName, s.Contact, s.Email, s.Phone, s.Address, s.Active,
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
	if err != nil {
		return dbError("insert supplier", err)
	}
	return nil
}

func scanSupplier(row scanner) (*entity.Supplier, error) {
	var s entity.Supplier
	var created, updated string
	if err := row.Scan(&s.ID, &s.RUC, &s.BusinessName, &s.Contact, &s.Email, &s.Phone, &s.Address,
		&s.Active, &created, &updated); err != nil {
		return nil, err
	}
	if err := scanTimes(created, updated, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) getOne(ctx context.Context, where string, arg any) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRowContext(ctx, `SELECT `+supplierColumns+` FROM proveedores WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get supplier", err)
	}
	return s, nil
}

// GetByID obtiene un proveedor.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByRUC obtiene un proveedor por RUC.
func (r *SupplierRepo) GetByRUC(ctx context.Context, ruc string) (*entity.Supplier, error) {
	return r.getOne(ctx, "ruc = ?", ruc)
}

// List busca por razón social o RUC.
func (r *SupplierRepo) List(ctx context.Context, f repository.PartyFilter) ([]*entity.Supplier, error) {
	p := likePattern(f.Search)
	rows, err := r.q.QueryContext(ctx, `SELECT `+supplierColumns+` FROM proveedores
		WHERE (? OR activo = 1) AND (? = '' OR razon_social LIKE ? ESCAPE '\' OR ruc LIKE ? ESCAPE '\')
		ORDER BY razon_social LIMIT ? OFFSET ?`,
		f.IncludeInactive, f.Search, p, p, f.Limit, f.Offset)
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
