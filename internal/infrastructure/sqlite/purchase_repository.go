package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, numero_compra, proveedor_id, usuario_id, fecha_compra, fecha_recepcion,
	estado, subtotal, impuesto, total, observaciones`

// PurchaseRepo compras y detalle sobre SQLite.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste cabecera y líneas.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO compras (`+purchaseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Number, p.SupplierID, nullString(p.UserID), formatTime(p.Date), nullTime(p.ReceivedAt),
		string(p.State), p.Subtotal, p.Tax, p.Total, p.Notes,
	)
	if err != nil {
		return dbError("insert purchase", err)
	}
	for _, l := range p.Lines {
		_, err := r.q.ExecContext(ctx, `INSERT INTO detalle_compras
			(id, compra_id, producto_id, cantidad, precio_unitario, subtotal)
			VALUES (?, ?, ?, ?, ?, ?)`,
			l.ID, p.ID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal)
		if err != nil {
			return dbError("insert purchase line", err)
		}
	}
	return nil
}

func scanPurchase(row scanner) (*entity.Purchase, error) {
	var p entity.Purchase
	var state, date string
	var user, received sql.NullString
	if err := row.Scan(&p.ID, &p.Number, &p.SupplierID, &user, &date, &received,
		&state, &p.Subtotal, &p.Tax, &p.Total, &p.Notes); err != nil {
		return nil, err
	}
	var err error
	if p.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if p.ReceivedAt, err = parseNullTime(received); err != nil {
		return nil, err
	}
	p.State = entity.PurchaseState(state)
	p.UserID = user.String
	return &p, nil
}

func (r *PurchaseRepo) get(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRowContext(ctx, `SELECT `+purchaseColumns+` FROM compras WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get purchase", err)
	}
	rows, err := r.q.QueryContext(ctx, `SELECT id, compra_id, producto_id, cantidad, precio_unitario, subtotal
		FROM detalle_compras WHERE compra_id = ? ORDER BY producto_id`, id)
	if err != nil {
		return nil, dbError("list purchase lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, dbError("scan purchase line", err)
		}
		p.Lines = append(p.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list purchase lines", err)
	}
	return p, nil
}

// GetByID compra con detalle.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, id)
}

// GetForUpdate dentro de la transacción inmediata equivale a GetByID.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, id)
}

// UpdateState cambia el estado; receivedAt nil conserva la fecha de recepción.
func (r *PurchaseRepo) UpdateState(ctx context.Context, id string, state entity.PurchaseState, receivedAt *time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE compras SET estado = ?, fecha_recepcion = COALESCE(?, fecha_recepcion) WHERE id = ?`,
		string(state), nullTime(receivedAt), id)
	if err != nil {
		return dbError("update purchase state", err)
	}
	return nil
}

// List cabeceras más recientes primero.
func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM compras WHERE 1=1`
	var args []any
	if f.State != "" {
		query += " AND estado = ?"
		args = append(args, string(f.State))
	}
	if f.SupplierID != "" {
		query += " AND proveedor_id = ?"
		args = append(args, f.SupplierID)
	}
	if f.From != nil {
		query += " AND fecha_compra >= ?"
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		query += " AND fecha_compra <= ?"
		args = append(args, formatTime(*f.To))
	}
	query += " ORDER BY fecha_compra DESC, numero_compra DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("list purchases", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, dbError("scan purchase", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list purchases", err)
	}
	return list, nil
}

// LastNumber último correlativo de la serie.
func (r *PurchaseRepo) LastNumber(ctx context.Context, series string) (string, error) {
	return lastNumber(ctx, r.q, "compras", "numero_compra", series)
}
