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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, numero_compra, proveedor_id, usuario_id, fecha_compra, fecha_recepcion,
	estado, subtotal, impuesto, total, observaciones`

// PurchaseRepo compras y su detalle sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera y las líneas.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `
		INSERT INTO compras (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Number, p.SupplierID, nullIfEmpty(p.UserID), p.Date, p.ReceivedAt,
		string(p.State), p.Subtotal, p.Tax, p.Total, p.Notes,
	)
	if err != nil {
		return dbError("insert purchase", err)
	}
	for _, l := range p.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO detalle_compras (id, compra_id, producto_id, cantidad, precio_unitario, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, p.ID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal,
		)
		if err != nil {
			return dbError("insert purchase line", err)
		}
	}
	return nil
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var state string
	var user *string
	if err := row.Scan(&p.ID, &p.Number, &p.SupplierID, &user, &p.Date, &p.ReceivedAt,
		&state, &p.Subtotal, &p.Tax, &p.Total, &p.Notes); err != nil {
		return nil, err
	}
	p.State = entity.PurchaseState(state)
	p.UserID = derefString(user)
	return &p, nil
}

func (r *PurchaseRepo) get(ctx context.Context, op, query, id string) (*entity.Purchase, error) {
	if !isUUID(id) {
		return nil, nil
	}
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError(op, err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, compra_id, producto_id, cantidad, precio_unitario, subtotal
		FROM detalle_compras WHERE compra_id = $1 ORDER BY producto_id`, p.ID)
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
	return r.get(ctx, "get purchase", `SELECT `+purchaseColumns+` FROM compras WHERE id = $1`, id)
}

// GetForUpdate compra con detalle y fila bloqueada.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, "get purchase for update", `SELECT `+purchaseColumns+` FROM compras WHERE id = $1 FOR UPDATE`, id)
}

// UpdateState cambia el estado; receivedAt solo se fija al recibir.
func (r *PurchaseRepo) UpdateState(ctx context.Context, id string, state entity.PurchaseState, receivedAt *time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE compras SET estado = $2, fecha_recepcion = COALESCE($3, fecha_recepcion) WHERE id = $1`,
		id, string(state), receivedAt)
	if err != nil {
		return dbError("update purchase state", err)
	}
	return nil
}

// List cabeceras filtradas por estado, proveedor y fechas, más recientes primero.
func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM compras WHERE 1=1`
	args := []any{}
	pos := 1
	if f.State != "" {
		query += fmt.Sprintf(" AND estado = $%d", pos)
		args = append(args, string(f.State))
		pos++
	}
	if f.SupplierID != "" {
		if !isUUID(f.SupplierID) {
			return nil, nil
		}
		query += fmt.Sprintf(" AND proveedor_id = $%d", pos)
		args = append(args, f.SupplierID)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND fecha_compra >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND fecha_compra <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha_compra DESC, numero_compra DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
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

// LastNumber último número de la serie COM-AAAA-.
func (r *PurchaseRepo) LastNumber(ctx context.Context, series string) (string, error) {
	return lastNumber(ctx, r.q, "compras", "numero_compra", series)
}
