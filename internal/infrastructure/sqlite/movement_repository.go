package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, producto_id, tipo_movimiento, cantidad, motivo, referencia_id,
	stock_anterior, stock_nuevo, usuario_id, observaciones, fecha_movimiento`

// MovementRepo kardex sobre SQLite. La tabla rechaza UPDATE y DELETE por trigger.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO movimientos_inventario (`+movementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProductID, m.Type, m.Quantity, m.Reason, nullString(m.ReferenceID),
		m.StockBefore, m.StockAfter, nullString(m.UserID), m.Notes, formatTime(m.Date),
	)
	if err != nil {
		return dbError("insert movement", err)
	}
	return nil
}

func scanMovement(row scanner) (*entity.Movement, error) {
	var m entity.Movement
	var ref, user sql.NullString
	var date string
	if err := row.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Reason, &ref,
		&m.StockBefore, &m.StockAfter, &user, &m.Notes, &date); err != nil {
		return nil, err
	}
	t, err := parseTime(date)
	if err != nil {
		return nil, err
	}
	m.Date = t
	m.ReferenceID = ref.String
	m.UserID = user.String
	return &m, nil
}

// ListByProduct más recientes primero; rowid desempata movimientos con la misma fecha.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movimientos_inventario WHERE producto_id = ?`
	args := []any{productID}
	if f.From != nil {
		query += " AND fecha_movimiento >= ?"
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		query += " AND fecha_movimiento <= ?"
		args = append(args, formatTime(*f.To))
	}
	if f.Type != "" {
		query += " AND tipo_movimiento = ?"
		args = append(args, f.Type)
	}
	query += " ORDER BY fecha_movimiento DESC, rowid DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)
	return r.list(ctx, "list movements by product", query, args...)
}

// ListByReference movimientos de una venta o compra en orden de registro.
func (r *MovementRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.Movement, error) {
	return r.list(ctx, "list movements by reference", `SELECT `+movementColumns+` FROM movimientos_inventario
		WHERE referencia_id = ? ORDER BY rowid`, referenceID)
}

// SumDelta Σ (stock_nuevo - stock_anterior) del producto.
func (r *MovementRepo) SumDelta(ctx context.Context, productID string) (int, error) {
	var sum int
	err := r.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(stock_nuevo - stock_anterior), 0) FROM movimientos_inventario WHERE producto_id = ?`,
		productID).Scan(&sum)
	if err != nil {
		return 0, dbError("sum movements", err)
	}
	return sum, nil
}

// SumOutflows salidas por producto en [from, to].
func (r *MovementRepo) SumOutflows(ctx context.Context, from, to time.Time) ([]repository.ProductOutflow, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT producto_id, SUM(cantidad), COUNT(*) FROM movimientos_inventario
		WHERE tipo_movimiento = ? AND fecha_movimiento >= ? AND fecha_movimiento <= ?
		GROUP BY producto_id ORDER BY producto_id`,
		entity.MovementTypeOUT, formatTime(from), formatTime(to))
	if err != nil {
		return nil, dbError("sum outflows", err)
	}
	defer rows.Close()
	var out []repository.ProductOutflow
	for rows.Next() {
		var o repository.ProductOutflow
		if err := rows.Scan(&o.ProductID, &o.Quantity, &o.Movements); err != nil {
			return nil, dbError("scan outflow", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("sum outflows", err)
	}
	return out, nil
}

// LastMovementDates el layout de fechas es ordenable como texto, así que MAX sirve.
func (r *MovementRepo) LastMovementDates(ctx context.Context) (map[string]time.Time, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT producto_id, MAX(fecha_movimiento) FROM movimientos_inventario GROUP BY producto_id`)
	if err != nil {
		return nil, dbError("last movement dates", err)
	}
	defer rows.Close()
	out := make(map[string]time.Time)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, dbError("scan last movement", err)
		}
		t, err := parseTime(raw)
		if err != nil {
			return nil, dbError("scan last movement", err)
		}
		out[id] = t
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("last movement dates", err)
	}
	return out, nil
}

func (r *MovementRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, dbError("scan movement", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	return list, nil
}
