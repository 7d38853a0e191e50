// Package purchasing coordina las órdenes de compra: registro, recepción (ingreso de stock) y cancelación.
package purchasing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/comercializacion-api/internal/application/inventory"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	costs "github.com/jhoicas/comercializacion-api/internal/domain/inventory"
	"github.com/jhoicas/comercializacion-api/internal/domain/pricing"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Límites de paginación de compras.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Coordinator máquina de estados de compras: pendiente -> recibida | cancelada.
type Coordinator struct {
	txRunner     repository.TxRunner
	ledger       *inventory.StockLedger
	supplierRepo repository.SupplierRepository
	purchaseRepo repository.PurchaseRepository
	taxRate      decimal.Decimal
	now          func() time.Time
}

// NewCoordinator construye el coordinador de compras.
func NewCoordinator(
	txRunner repository.TxRunner,
	ledger *inventory.StockLedger,
	supplierRepo repository.SupplierRepository,
	purchaseRepo repository.PurchaseRepository,
	taxRate decimal.Decimal,
) *Coordinator {
	return &Coordinator{
		txRunner:     txRunner,
		ledger:       ledger,
		supplierRepo: supplierRepo,
		purchaseRepo: purchaseRepo,
		taxRate:      taxRate,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// PurchaseLineInput cantidad y precio unitario deben ser positivos.
type PurchaseLineInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// PurchaseInput datos de una orden de compra. Date nil usa la fecha actual.
type PurchaseInput struct {
	SupplierID string
	UserID     string
	Date       *time.Time
	Notes      string
	Lines      []PurchaseLineInput
}

func validatePurchaseInput(in PurchaseInput) error {
	if strings.TrimSpace(in.SupplierID) == "" {
		return domain.Invalid("proveedor_id", "requerido")
	}
	if len(in.Lines) == 0 {
		return domain.Invalid("lineas", "la compra debe tener al menos una línea")
	}
	seen := make(map[string]struct{}, len(in.Lines))
	for i, l := range in.Lines {
		field := fmt.Sprintf("lineas[%d]", i)
		if strings.TrimSpace(l.ProductID) == "" {
			return domain.Invalid(field+".producto_id", "requerido")
		}
		if l.Quantity <= 0 {
			return domain.Invalid(field+".cantidad", "debe ser mayor a 0")
		}
		if l.Quantity > entity.MaxStock {
			return domain.Invalid(field+".cantidad", "fuera de rango")
		}
		if !l.UnitPrice.Round(2).IsPositive() {
			return domain.Invalid(field+".precio_unitario", "debe ser mayor a 0")
		}
		if _, dup := seen[l.ProductID]; dup {
			return domain.Invalid(field+".producto_id", "producto repetido en la compra")
		}
		seen[l.ProductID] = struct{}{}
	}
	return nil
}

// CreatePurchase registra la orden en estado pendiente. No modifica stock.
func (c *Coordinator) CreatePurchase(ctx context.Context, in PurchaseInput) (*entity.Purchase, error) {
	if err := validatePurchaseInput(in); err != nil {
		return nil, err
	}
	supplier, err := c.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || !supplier.Active {
		return nil, &domain.NotFoundError{Entity: "proveedor", ID: in.SupplierID}
	}

	lines := make([]pricing.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, pricing.Line{Quantity: l.Quantity, UnitPrice: l.UnitPrice.Round(2)})
	}
	totals, err := pricing.PurchaseTotals(lines, c.taxRate)
	if err != nil {
		return nil, err
	}

	var purchase *entity.Purchase
	err = c.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		for _, l := range in.Lines {
			p, err := repos.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return &domain.NotFoundError{Entity: "producto", ID: l.ProductID}
			}
		}

		now := c.now()
		date := now
		if in.Date != nil {
			date = in.Date.UTC()
		}
		series := entity.DocumentSeries(entity.PurchasePrefix, date.Year())
		last, err := repos.Purchases.LastNumber(ctx, series)
		if err != nil {
			return err
		}
		purchase = &entity.Purchase{
			ID:         uuid.New().String(),
			Number:     entity.NextDocumentNumber(series, last, entity.PurchaseNumberWidth),
			SupplierID: in.SupplierID,
			UserID:     in.UserID,
			Date:       date,
			State:      entity.PurchasePending,
			Subtotal:   totals.Subtotal,
			Tax:        totals.Tax,
			Total:      totals.Total,
			Notes:      in.Notes,
		}
		for i, l := range in.Lines {
			purchase.Lines = append(purchase.Lines, entity.PurchaseLine{
				ID:         uuid.New().String(),
				PurchaseID: purchase.ID,
				ProductID:  l.ProductID,
				Quantity:   l.Quantity,
				UnitPrice:  l.UnitPrice.Round(2),
				Subtotal:   totals.LineSubtotals[i],
			})
		}
		return repos.Purchases.Create(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// ReceivePurchase registra una entrada por línea, fija fecha_recepcion y pasa a recibida, todo en una transacción.
// El precio de compra del producto se actualiza al costo promedio ponderado.
func (c *Coordinator) ReceivePurchase(ctx context.Context, purchaseID, actorID string) (*entity.Purchase, error) {
	var purchase *entity.Purchase
	err := c.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		purchase, err = repos.Purchases.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return &domain.NotFoundError{Entity: "compra", ID: purchaseID}
		}
		next, err := purchase.State.Transition(entity.PurchaseOpReceive)
		if err != nil {
			return err
		}

		lines := append([]entity.PurchaseLine(nil), purchase.Lines...)
		sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
		for _, line := range lines {
			mov, err := c.ledger.RecordMovement(ctx, repos, inventory.MovementInput{
				ProductID:   line.ProductID,
				Type:        entity.MovementTypeIN,
				Quantity:    line.Quantity,
				Reason:      entity.ReasonPurchase,
				UserID:      actorID,
				ReferenceID: purchase.ID,
				Notes:       purchase.Number,
			})
			if err != nil {
				return err
			}
			p, err := repos.Products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return &domain.NotFoundError{Entity: "producto", ID: line.ProductID}
			}
			avg := costs.WeightedAverageCost(mov.StockBefore, p.PurchasePrice, line.Quantity, line.UnitPrice)
			if err := repos.Products.UpdatePurchasePrice(ctx, line.ProductID, avg); err != nil {
				return err
			}
		}

		now := c.now()
		if err := repos.Purchases.UpdateState(ctx, purchase.ID, next, &now); err != nil {
			return err
		}
		purchase.State = next
		purchase.ReceivedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// CancelPurchase cancela una compra pendiente. No modifica stock.
func (c *Coordinator) CancelPurchase(ctx context.Context, purchaseID string) (*entity.Purchase, error) {
	var purchase *entity.Purchase
	err := c.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		purchase, err = repos.Purchases.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return &domain.NotFoundError{Entity: "compra", ID: purchaseID}
		}
		next, err := purchase.State.Transition(entity.PurchaseOpCancel)
		if err != nil {
			return err
		}
		if err := repos.Purchases.UpdateState(ctx, purchase.ID, next, nil); err != nil {
			return err
		}
		purchase.State = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// GetPurchase compra con su detalle.
func (c *Coordinator) GetPurchase(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := c.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.NotFoundError{Entity: "compra", ID: id}
	}
	return p, nil
}

// ListPurchases filtros por estado, proveedor y rango de fechas combinados con AND.
func (c *Coordinator) ListPurchases(ctx context.Context, filter repository.PurchaseFilter) ([]*entity.Purchase, error) {
	if filter.State != "" && !filter.State.IsValid() {
		return nil, domain.Invalid("estado", "debe ser pendiente, recibida o cancelada")
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.Invalid("hasta", "no puede ser anterior a desde")
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return c.purchaseRepo.List(ctx, filter)
}
