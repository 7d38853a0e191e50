package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/inventory"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

// Límites de paginación del kardex.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// StockLedger es el único punto que modifica productos.stock_actual.
// Cada cambio se registra en movimientos_inventario dentro de la misma transacción,
// con bloqueo de fila (SELECT FOR UPDATE) sobre el producto.
type StockLedger struct {
	txRunner    repository.TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	now         func() time.Time
}

// NewStockLedger construye el kardex. productRepo y movRepo se usan solo para lecturas fuera de transacción.
func NewStockLedger(txRunner repository.TxRunner, productRepo repository.ProductRepository, movRepo repository.MovementRepository) *StockLedger {
	return &StockLedger{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// MovementInput datos de un movimiento. Decrease solo aplica a ajustes.
// Reversal marca la compensación de un movimiento ya registrado (anulación de venta).
type MovementInput struct {
	ProductID   string
	Type        string
	Quantity    int
	Decrease    bool
	Reversal    bool
	Reason      string
	UserID      string
	ReferenceID string
	Notes       string
}

// HistoryFilter filtros del historial de un producto.
type HistoryFilter = repository.MovementFilter

// Reconciliation resultado de comparar stock_actual con stock_inicial + Σ movimientos.
type Reconciliation struct {
	ProductID      string
	InitialStock   int
	MovementsDelta int
	Expected       int
	Actual         int
	Drift          int
	Consistent     bool
}

// RecordMovement aplica un movimiento usando los repositorios de la transacción del caller:
// bloquea el producto, valida que el stock no quede negativo, actualiza stock_actual y registra el movimiento.
// Si devuelve error el caller debe abortar la transacción completa.
func (l *StockLedger) RecordMovement(ctx context.Context, repos repository.TxRepos, in MovementInput) (*entity.Movement, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.Invalid("producto_id", "requerido")
	}
	if !entity.IsValidMovementType(in.Type) {
		return nil, domain.Invalid("tipo_movimiento", "debe ser entrada, salida o ajuste")
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("cantidad", "debe ser mayor a 0")
	}
	if in.Decrease && in.Type != entity.MovementTypeADJUSTMENT {
		return nil, domain.Invalid("tipo_movimiento", "solo un ajuste puede indicar disminución")
	}
	if in.Type == entity.MovementTypeADJUSTMENT && strings.TrimSpace(in.Reason) == "" {
		return nil, domain.Invalid("motivo", "requerido para ajustes")
	}

	product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "producto", ID: in.ProductID}
	}
	// Solo la compensación de un movimiento previo toca un producto inactivo.
	if !product.Active && !in.Reversal {
		return nil, domain.Invalid("producto_id", "el producto está inactivo")
	}

	next, err := inventory.ApplyMovement(product, in.Type, in.Quantity, in.Decrease)
	if err != nil {
		return nil, err
	}
	if err := repos.Products.UpdateStock(ctx, product.ID, next); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		ReferenceID: in.ReferenceID,
		StockBefore: product.CurrentStock,
		StockAfter:  next,
		UserID:      in.UserID,
		Notes:       in.Notes,
		Date:        l.now(),
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	product.CurrentStock = next
	return mov, nil
}

// LockProducts bloquea los productos en orden de ID (evita deadlocks entre transacciones multi-producto)
// y devuelve el estado vigente de cada uno.
func (l *StockLedger) LockProducts(ctx context.Context, repos repository.TxRepos, ids []string) (map[string]*entity.Product, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	locked := make(map[string]*entity.Product, len(sorted))
	for _, id := range sorted {
		if _, ok := locked[id]; ok {
			continue
		}
		p, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, &domain.NotFoundError{Entity: "producto", ID: id}
		}
		locked[id] = p
	}
	return locked, nil
}

// CurrentStock lectura fresca del stock confirmado (sin caché).
func (l *StockLedger) CurrentStock(ctx context.Context, productID string) (int, error) {
	p, err := l.productRepo.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, &domain.NotFoundError{Entity: "producto", ID: productID}
	}
	return p.CurrentStock, nil
}

// History kardex del producto, del más reciente al más antiguo.
func (l *StockLedger) History(ctx context.Context, productID string, filter HistoryFilter) ([]*entity.Movement, error) {
	if filter.Type != "" && !entity.IsValidMovementType(filter.Type) {
		return nil, domain.Invalid("tipo", "debe ser entrada, salida o ajuste")
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.Invalid("hasta", "no puede ser anterior a desde")
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultHistoryLimit
	}
	if filter.Limit > MaxHistoryLimit {
		filter.Limit = MaxHistoryLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	p, err := l.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.NotFoundError{Entity: "producto", ID: productID}
	}
	return l.movRepo.ListByProduct(ctx, productID, filter)
}

// Reconcile verifica stock_actual == stock_inicial + Σ(stock_nuevo - stock_anterior).
// Bloquea el producto para que la suma y el stock se lean sin escrituras concurrentes.
func (l *StockLedger) Reconcile(ctx context.Context, productID string) (*Reconciliation, error) {
	var rec *Reconciliation
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		p, err := repos.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return &domain.NotFoundError{Entity: "producto", ID: productID}
		}
		sum, err := repos.Movements.SumDelta(ctx, productID)
		if err != nil {
			return err
		}
		expected := p.InitialStock + sum
		rec = &Reconciliation{
			ProductID:      productID,
			InitialStock:   p.InitialStock,
			MovementsDelta: sum,
			Expected:       expected,
			Actual:         p.CurrentStock,
			Drift:          p.CurrentStock - expected,
			Consistent:     p.CurrentStock == expected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
