package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, codigo, nombre, descripcion, categoria_id, precio_compra, precio_venta,
	stock_inicial, stock_actual, stock_minimo, activo, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.CategoryID, &p.PurchasePrice, &p.SalePrice,
		&p.InitialStock, &p.CurrentStock, &p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO productos (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Code, product.Name, product.Description, product.CategoryID,
		product.PurchasePrice, product.SalePrice, product.InitialStock, product.CurrentStock,
		product.MinStock, product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return dbError("insert product", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError(op, err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get product", `SELECT `+productColumns+` FROM productos WHERE id = $1`, id)
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by code", `SELECT `+productColumns+` FROM productos WHERE codigo = $1`, code)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get product for update", `SELECT `+productColumns+` FROM productos WHERE id = $1 FOR UPDATE`, id)
}

// Update actualiza datos descriptivos y precios. No toca stock_inicial ni stock_actual.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE productos SET nombre = $2, descripcion = $3, categoria_id = $4, precio_compra = $5,
			precio_venta = $6, stock_minimo = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.CategoryID, product.PurchasePrice,
		product.SalePrice, product.MinStock, product.UpdatedAt,
	)
	if err != nil {
		return dbError("update product", err)
	}
	return nil
}

// UpdateStock único UPDATE de stock_actual; lo invoca el kardex tras bloquear la fila.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stock int) error {
	_, err := r.q.Exec(ctx, `UPDATE productos SET stock_actual = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return dbError("update stock", err)
	}
	return nil
}

// UpdatePurchasePrice actualiza el precio de compra (costo promedio al recibir compras).
func (r *ProductRepo) UpdatePurchasePrice(ctx context.Context, id string, price decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE productos SET precio_compra = $2, updated_at = now() WHERE id = $1`, id, price)
	if err != nil {
		return dbError("update purchase price", err)
	}
	return nil
}

// SetActive baja lógica o reactivación.
func (r *ProductRepo) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.q.Exec(ctx, `UPDATE productos SET activo = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return dbError("set product active", err)
	}
	return nil
}

// List lista productos con búsqueda por código o nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE 1=1`
	args := []any{}
	pos := 1
	if !f.IncludeInactive {
		query += " AND activo = TRUE"
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (codigo ILIKE $%d OR nombre ILIKE $%d)", pos, pos)
		args = append(args, likePattern(f.Search))
		pos++
	}
	if f.CategoryID != "" {
		query += fmt.Sprintf(" AND categoria_id = $%d", pos)
		args = append(args, f.CategoryID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY nombre, codigo LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)
	return r.list(ctx, "list products", query, args...)
}

// ListLowStock productos activos con stock_actual <= stock_minimo.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos
		WHERE activo = TRUE AND stock_actual <= stock_minimo
		ORDER BY (stock_minimo - stock_actual) DESC, codigo`
	return r.list(ctx, "list low stock", query)
}

func (r *ProductRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, dbError("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	return list, nil
}
