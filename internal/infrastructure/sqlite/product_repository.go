package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, codigo, nombre, descripcion, categoria_id, precio_compra, precio_venta,
	stock_inicial, stock_actual, stock_minimo, activo, created_at, updated_at`

// ProductRepo productos sobre SQLite.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar *sql.DB o *sql.Tx.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row scanner) (*entity.Product, error) {
	var p entity.Product
	var created, updated string
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.CategoryID, &p.PurchasePrice, &p.SalePrice,
		&p.InitialStock, &p.CurrentStock, &p.MinStock, &p.Active, &created, &updated,
	)
	if err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO productos (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Code, p.Name, p.Description, p.CategoryID, p.PurchasePrice, p.SalePrice,
		p.InitialStock, p.CurrentStock, p.MinStock, p.Active, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return dbError("insert product", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, op, where string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM productos WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError(op, err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product", "id = ?", id)
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by code", "codigo = ?", code)
}

// GetForUpdate igual que GetByID: la transacción inmediata ya tiene el lock de escritura.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product for update", "id = ?", id)
}

// Update datos descriptivos y precios, nunca stock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx, `UPDATE productos SET nombre = ?, descripcion = ?, categoria_id = ?,
		precio_compra = ?, precio_venta = ?, stock_minimo = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Description, p.CategoryID, p.PurchasePrice, p.SalePrice, p.MinStock, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return dbError("update product", err)
	}
	return nil
}

// UpdateStock único UPDATE de stock_actual.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stock int) error {
	_, err := r.q.ExecContext(ctx, `UPDATE productos SET stock_actual = ?, updated_at = ? WHERE id = ?`,
		stock, formatTime(time.Now()), id)
	if err != nil {
		return dbError("update stock", err)
	}
	return nil
}

// UpdatePurchasePrice costo promedio tras recibir compras.
func (r *ProductRepo) UpdatePurchasePrice(ctx context.Context, id string, price decimal.Decimal) error {
	_, err := r.q.ExecContext(ctx, `UPDATE productos SET precio_compra = ?, updated_at = ? WHERE id = ?`,
		price, formatTime(time.Now()), id)
	if err != nil {
		return dbError("update purchase price", err)
	}
	return nil
}

// SetActive baja lógica o reactivación.
func (r *ProductRepo) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, r.q, "productos", id, active)
}

// List búsqueda por código o nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE 1=1`
	var args []any
	if !f.IncludeInactive {
		query += " AND activo = 1"
	}
	if f.Search != "" {
		query += ` AND (codigo LIKE ? ESCAPE '\' OR nombre LIKE ? ESCAPE '\')`
		args = append(args, likePattern(f.Search), likePattern(f.Search))
	}
	if f.CategoryID != "" {
		query += " AND categoria_id = ?"
		args = append(args, f.CategoryID)
	}
	query += " ORDER BY nombre, codigo LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)
	return r.list(ctx, "list products", query, args...)
}

// ListLowStock productos activos con stock_actual <= stock_minimo.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, "list low stock", `SELECT `+productColumns+` FROM productos
		WHERE activo = 1 AND stock_actual <= stock_minimo
		ORDER BY (stock_minimo - stock_actual) DESC, codigo`)
}

func (r *ProductRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
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
