package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, numero_venta, cliente_id, usuario_id, fecha_venta, tipo_comprobante, metodo_pago,
	estado, subtotal, descuento, impuesto, total, observaciones, fecha_anulacion, anulada_por`

// SaleRepo ventas y detalle sobre SQLite.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste cabecera y líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO ventas (`+saleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Number, s.CustomerID, nullString(s.UserID), formatTime(s.Date), s.VoucherType, s.PaymentMethod,
		string(s.State), s.Subtotal, s.Discount, s.Tax, s.Total, s.Notes, nullTime(s.VoidedAt), nullString(s.VoidedBy),
	)
	if err != nil {
		return dbError("insert sale", err)
	}
	for _, l := range s.Lines {
		_, err := r.q.ExecContext(ctx, `INSERT INTO detalle_ventas
			(id, venta_id, producto_id, cantidad, precio_unitario, descuento, subtotal)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.ID, s.ID, l.ProductID, l.Quantity, l.UnitPrice, l.Discount, l.Subtotal)
		if err != nil {
			return dbError("insert sale line", err)
		}
	}
	return nil
}

func scanSale(row scanner) (*entity.Sale, error) {
	var s entity.Sale
	var state, date string
	var user, voidedBy, voidedAt sql.NullString
	if err := row.Scan(&s.ID, &s.Number, &s.CustomerID, &user, &date, &s.VoucherType, &s.PaymentMethod,
		&state, &s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.Notes, &voidedAt, &voidedBy); err != nil {
		return nil, err
	}
	var err error
	if s.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if s.VoidedAt, err = parseNullTime(voidedAt); err != nil {
		return nil, err
	}
	s.State = entity.SaleState(state)
	s.UserID = user.String
	s.VoidedBy = voidedBy.String
	return &s, nil
}

func (r *SaleRepo) get(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRowContext(ctx, `SELECT `+saleColumns+` FROM ventas WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get sale", err)
	}
	rows, err := r.q.QueryContext(ctx, `SELECT id, venta_id, producto_id, cantidad, precio_unitario, descuento, subtotal
		FROM detalle_ventas WHERE venta_id = ? ORDER BY producto_id`, id)
	if err != nil {
		return nil, dbError("list sale lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Discount, &l.Subtotal); err != nil {
			return nil, dbError("scan sale line", err)
		}
		s.Lines = append(s.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list sale lines", err)
	}
	return s, nil
}

// GetByID venta con detalle.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id)
}

// GetForUpdate dentro de la transacción inmediata equivale a GetByID.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id)
}

// MarkVoided estado anulada con fecha y usuario.
func (r *SaleRepo) MarkVoided(ctx context.Context, id string, voidedAt time.Time, voidedBy string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE ventas SET estado = ?, fecha_anulacion = ?, anulada_por = ? WHERE id = ?`,
		string(entity.SaleVoided), formatTime(voidedAt), nullString(voidedBy), id)
	if err != nil {
		return dbError("void sale", err)
	}
	return nil
}

// List cabeceras más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM ventas WHERE 1=1`
	var args []any
	if f.State != "" {
		query += " AND estado = ?"
		args = append(args, string(f.State))
	}
	if f.CustomerID != "" {
		query += " AND cliente_id = ?"
		args = append(args, f.CustomerID)
	}
	if f.From != nil {
		query += " AND fecha_venta >= ?"
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		query += " AND fecha_venta <= ?"
		args = append(args, formatTime(*f.To))
	}
	query += " ORDER BY fecha_venta DESC, numero_venta DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
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

// LastNumber último correlativo de la serie.
func (r *SaleRepo) LastNumber(ctx context.Context, series string) (string, error) {
	return lastNumber(ctx, r.q, "ventas", "numero_venta", series)
}

func lastNumber(ctx context.Context, q Querier, table, column, series string) (string, error) {
	var last string
	err := q.QueryRowContext(ctx, `SELECT `+column+` FROM `+table+` WHERE `+column+` LIKE ? ESCAPE '\'
		ORDER BY LENGTH(`+column+`) DESC, `+column+` DESC LIMIT 1`, likePrefix(series)).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", dbError("last document number", err)
	}
	return last, nil
}
