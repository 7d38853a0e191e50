package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, numero_venta, cliente_id, usuario_id, fecha_venta, tipo_comprobante, metodo_pago,
	estado, subtotal, descuento, impuesto, total, observaciones, fecha_anulacion, anulada_por`

// SaleRepo ventas y su detalle sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera y las líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO ventas (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Number, s.CustomerID, nullIfEmpty(s.UserID), s.Date, s.VoucherType, s.PaymentMethod,
		string(s.State), s.Subtotal, s.Discount, s.Tax, s.Total, s.Notes, s.VoidedAt, nullIfEmpty(s.VoidedBy),
	)
	if err != nil {
		return dbError("insert sale", err)
	}
	for _, l := range s.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO detalle_ventas (id, venta_id, producto_id, cantidad, precio_unitario, descuento, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, s.ID, l.ProductID, l.Quantity, l.UnitPrice, l.Discount, l.Subtotal,
		)
		if err != nil {
			return dbError("insert sale line", err)
		}
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var state string
	var user, voidedBy *string
	if err := row.Scan(&s.ID, &s.Number, &s.CustomerID, &user, &s.Date, &s.VoucherType, &s.PaymentMethod,
		&state, &s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.Notes, &s.VoidedAt, &voidedBy); err != nil {
		return nil, err
	}
	s.State = entity.SaleState(state)
	s.UserID = derefString(user)
	s.VoidedBy = derefString(voidedBy)
	return &s, nil
}

func (r *SaleRepo) get(ctx context.Context, op, query, id string) (*entity.Sale, error) {
	if !isUUID(id) {
		return nil, nil
	}
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError(op, err)
	}
	if s.Lines, err = r.lines(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) lines(ctx context.Context, saleID string) ([]entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, venta_id, producto_id, cantidad, precio_unitario, descuento, subtotal
		FROM detalle_ventas WHERE venta_id = $1 ORDER BY producto_id`, saleID)
	if err != nil {
		return nil, dbError("list sale lines", err)
	}
	defer rows.Close()
	var lines []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Discount, &l.Subtotal); err != nil {
			return nil, dbError("scan sale line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list sale lines", err)
	}
	return lines, nil
}

// GetByID venta con detalle.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, "get sale", `SELECT `+saleColumns+` FROM ventas WHERE id = $1`, id)
}

// GetForUpdate venta con detalle y fila bloqueada.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, "get sale for update", `SELECT `+saleColumns+` FROM ventas WHERE id = $1 FOR UPDATE`, id)
}

// MarkVoided estado anulada con fecha y usuario.
func (r *SaleRepo) MarkVoided(ctx context.Context, id string, voidedAt time.Time, voidedBy string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE ventas SET estado = $2, fecha_anulacion = $3, anulada_por = $4 WHERE id = $1`,
		id, string(entity.SaleVoided), voidedAt, nullIfEmpty(voidedBy))
	if err != nil {
		return dbError("void sale", err)
	}
	return nil
}

// List cabeceras filtradas por estado, cliente y fechas, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM ventas WHERE 1=1`
	args := []any{}
	pos := 1
	if f.State != "" {
		query += fmt.Sprintf(" AND estado = $%d", pos)
		args = append(args, string(f.State))
		pos++
	}
	if f.CustomerID != "" {
		if !isUUID(f.CustomerID) {
			return nil, nil
		}
		query += fmt.Sprintf(" AND cliente_id = $%d", pos)
		args = append(args, f.CustomerID)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND fecha_venta >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND fecha_venta <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha_venta DESC, numero_venta DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("list sales", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, dbError("scan sale", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list sales", err)
	}
	return list, nil
}

// LastNumber último número de la serie. Toma un advisory lock de transacción sobre la serie
// para que dos ventas concurrentes no obtengan el mismo correlativo.
func (r *SaleRepo) LastNumber(ctx context.Context, series string) (string, error) {
	return lastNumber(ctx, r.q, "ventas", "numero_venta", series)
}

func lastNumber(ctx context.Context, q Querier, table, column, series string) (string, error) {
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, series); err != nil {
		return "", dbError("lock series", err)
	}
	var last string
	query := fmt.Sprintf(`SELECT %[2]s FROM %[1]s WHERE %[2]s LIKE $1 ORDER BY LENGTH(%[2]s) DESC, %[2]s DESC LIMIT 1`, table, column)
	err := q.QueryRow(ctx, query, series+"%").Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", dbError("last document number", err)
	}
	return last, nil
}
