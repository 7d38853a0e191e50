package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, producto_id, tipo_movimiento, cantidad, motivo, referencia_id,
	stock_anterior, stock_nuevo, usuario_id, observaciones, fecha_movimiento`

// MovementRepo kardex sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movimientos_inventario (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.Reason, nullIfEmpty(m.ReferenceID),
		m.StockBefore, m.StockAfter, nullIfEmpty(m.UserID), m.Notes, m.Date,
	)
	if err != nil {
		return dbError("insert movement", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var ref, user *string
	if err := row.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Reason, &ref,
		&m.StockBefore, &m.StockAfter, &user, &m.Notes, &m.Date); err != nil {
		return nil, err
	}
	m.ReferenceID = derefString(ref)
	m.UserID = derefString(user)
	return &m, nil
}

// ListByProduct lista movimientos de un producto, más recientes primero.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	if !isUUID(productID) {
		return nil, nil
	}
	query := `SELECT ` + movementColumns + ` FROM movimientos_inventario WHERE producto_id = $1`
	args := []any{productID}
	pos := 2
	if f.From != nil {
		query += fmt.Sprintf(" AND fecha_movimiento >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND fecha_movimiento <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	if f.Type != "" {
		query += fmt.Sprintf(" AND tipo_movimiento = $%d", pos)
		args = append(args, f.Type)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha_movimiento DESC, secuencia DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)
	return r.list(ctx, "list movements by product", query, args...)
}

// ListByReference movimientos originados por una venta o compra, en orden de registro.
func (r *MovementRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.Movement, error) {
	if !isUUID(referenceID) {
		return nil, nil
	}
	query := `SELECT ` + movementColumns + ` FROM movimientos_inventario
		WHERE referencia_id = $1 ORDER BY secuencia`
	return r.list(ctx, "list movements by reference", query, referenceID)
}

// SumDelta Σ (stock_nuevo - stock_anterior) del producto.
func (r *MovementRepo) SumDelta(ctx context.Context, productID string) (int, error) {
	if !isUUID(productID) {
		return 0, nil
	}
	var sum int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(stock_nuevo - stock_anterior), 0)::INTEGER FROM movimientos_inventario WHERE producto_id = $1`,
		productID).Scan(&sum)
	if err != nil {
		return 0, dbError("sum movements", err)
	}
	return sum, nil
}

// SumOutflows salidas por producto en [from, to].
func (r *MovementRepo) SumOutflows(ctx context.Context, from, to time.Time) ([]repository.ProductOutflow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT producto_id, SUM(cantidad)::INTEGER, COUNT(*)::INTEGER FROM movimientos_inventario
		WHERE tipo_movimiento = $1 AND fecha_movimiento BETWEEN $2 AND $3
		GROUP BY producto_id ORDER BY producto_id`,
		entity.MovementTypeOUT, from, to)
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

// LastMovementDates fecha del último movimiento por producto.
func (r *MovementRepo) LastMovementDates(ctx context.Context) (map[string]time.Time, error) {
	rows, err := r.q.Query(ctx, `SELECT producto_id, MAX(fecha_movimiento) FROM movimientos_inventario GROUP BY producto_id`)
	if err != nil {
		return nil, dbError("last movement dates", err)
	}
	defer rows.Close()
	out := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var t time.Time
		if err := rows.Scan(&id, &t); err != nil {
			return nil, dbError("scan last movement", err)
		}
		out[id] = t.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("last movement dates", err)
	}
	return out, nil
}

func (r *MovementRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
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
