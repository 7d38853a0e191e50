// Package sales coordina el ciclo de vida de las ventas: registro con descuento de stock y anulación.
package sales

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
	"github.com/jhoicas/comercializacion-api/internal/domain/pricing"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Límites de paginación de ventas.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Coordinator registra y anula ventas. Cabecera, detalle y salidas de stock se confirman juntos o no se confirman.
type Coordinator struct {
	txRunner     repository.TxRunner
	ledger       *inventory.StockLedger
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	taxRate      decimal.Decimal
	now          func() time.Time
}

// NewCoordinator construye el coordinador. taxRate es la tasa de impuesto (p. ej. 0.18).
func NewCoordinator(
	txRunner repository.TxRunner,
	ledger *inventory.StockLedger,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	taxRate decimal.Decimal,
) *Coordinator {
	return &Coordinator{
		txRunner:     txRunner,
		ledger:       ledger,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		taxRate:      taxRate,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SaleLineInput línea solicitada. UnitPrice cero toma el precio de venta vigente del producto.
type SaleLineInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// SaleInput datos de una venta en borrador.
type SaleInput struct {
	CustomerID    string
	UserID        string
	VoucherType   string
	PaymentMethod string
	Discount      decimal.Decimal
	Notes         string
	Lines         []SaleLineInput
}

func validateSaleInput(in SaleInput) (string, error) {
	if len(in.Lines) == 0 {
		return "", domain.Invalid("lineas", "la venta debe tener al menos una línea")
	}
	prefix, ok := entity.VoucherPrefix(in.VoucherType)
	if !ok {
		return "", domain.Invalid("tipo_comprobante", "debe ser boleta, factura o ticket")
	}
	if !entity.IsValidPaymentMethod(in.PaymentMethod) {
		return "", domain.Invalid("metodo_pago", "debe ser efectivo, tarjeta o transferencia")
	}
	if in.Discount.IsNegative() {
		return "", domain.Invalid("descuento", "no puede ser negativo")
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return "", domain.Invalid("cliente_id", "requerido")
	}
	seen := make(map[string]struct{}, len(in.Lines))
	for i, l := range in.Lines {
		field := fmt.Sprintf("lineas[%d]", i)
		if strings.TrimSpace(l.ProductID) == "" {
			return "", domain.Invalid(field+".producto_id", "requerido")
		}
		if l.Quantity <= 0 {
			return "", domain.Invalid(field+".cantidad", "debe ser mayor a 0")
		}
		if l.Quantity > entity.MaxStock {
			return "", domain.Invalid(field+".cantidad", "fuera de rango")
		}
		if l.UnitPrice.IsNegative() {
			return "", domain.Invalid(field+".precio_unitario", "no puede ser negativo")
		}
		if l.Discount.IsNegative() {
			return "", domain.Invalid(field+".descuento", "no puede ser negativo")
		}
		if _, dup := seen[l.ProductID]; dup {
			return "", domain.Invalid(field+".producto_id", "producto repetido en la venta")
		}
		seen[l.ProductID] = struct{}{}
	}
	return prefix, nil
}

// CreateSale registra una venta completada: valida la entrada, bloquea los productos, verifica el stock de
// todas las líneas antes de escribir, guarda cabecera y detalle y registra una salida por línea.
// Cualquier falla revierte todo: sin venta, sin movimientos y sin cambio de stock.
func (c *Coordinator) CreateSale(ctx context.Context, in SaleInput) (*entity.Sale, error) {
	prefix, err := validateSaleInput(in)
	if err != nil {
		return nil, err
	}
	customer, err := c.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || !customer.Active {
		return nil, &domain.NotFoundError{Entity: "cliente", ID: in.CustomerID}
	}

	ids := make([]string, 0, len(in.Lines))
	for _, l := range in.Lines {
		ids = append(ids, l.ProductID)
	}

	var sale *entity.Sale
	err = c.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		locked, err := c.ledger.LockProducts(ctx, repos, ids)
		if err != nil {
			return err
		}

		priced := make([]pricing.Line, 0, len(in.Lines))
		for _, l := range in.Lines {
			p := locked[l.ProductID]
			if !p.Active {
				return domain.Invalid("producto_id", fmt.Sprintf("el producto %s está inactivo", p.Code))
			}
			if l.Quantity > p.CurrentStock {
				return &domain.InsufficientStockError{
					ProductID:   p.ID,
					ProductCode: p.Code,
					Available:   p.CurrentStock,
					Requested:   l.Quantity,
				}
			}
			price := l.UnitPrice
			if price.IsZero() {
				price = p.SalePrice
			}
			// el detalle guarda céntimos: los subtotales se calculan sobre los mismos valores
			priced = append(priced, pricing.Line{Quantity: l.Quantity, UnitPrice: price.Round(2), Discount: l.Discount.Round(2)})
		}
		totals, err := pricing.SaleTotals(priced, in.Discount, c.taxRate)
		if err != nil {
			return err
		}

		now := c.now()
		series := entity.DocumentSeries(prefix, now.Year())
		last, err := repos.Sales.LastNumber(ctx, series)
		if err != nil {
			return err
		}
		sale = &entity.Sale{
			ID:            uuid.New().String(),
			Number:        entity.NextDocumentNumber(series, last, entity.SaleNumberWidth),
			CustomerID:    in.CustomerID,
			UserID:        in.UserID,
			Date:          now,
			VoucherType:   in.VoucherType,
			PaymentMethod: in.PaymentMethod,
			State:         entity.SaleCompleted,
			Subtotal:      totals.Subtotal,
			Discount:      totals.Discount,
			Tax:           totals.Tax,
			Total:         totals.Total,
			Notes:         in.Notes,
		}
		for i, l := range priced {
			sale.Lines = append(sale.Lines, entity.SaleLine{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: in.Lines[i].ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				Discount:  l.Discount,
				Subtotal:  totals.LineSubtotals[i],
			})
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		for _, line := range sale.Lines {
			if _, err := c.ledger.RecordMovement(ctx, repos, inventory.MovementInput{
				ProductID:   line.ProductID,
				Type:        entity.MovementTypeOUT,
				Quantity:    line.Quantity,
				Reason:      entity.ReasonSale,
				UserID:      in.UserID,
				ReferenceID: sale.ID,
				Notes:       sale.Number,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// VoidSale anula una venta completada y devuelve al stock lo vendido mediante entradas compensatorias.
// Una segunda anulación falla con InvalidStateError sin efectos.
func (c *Coordinator) VoidSale(ctx context.Context, saleID, actorID string) (*entity.Sale, error) {
	var sale *entity.Sale
	err := c.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		sale, err = repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return &domain.NotFoundError{Entity: "venta", ID: saleID}
		}
		next, err := sale.State.Transition(entity.SaleOpVoid)
		if err != nil {
			return err
		}

		lines := append([]entity.SaleLine(nil), sale.Lines...)
		sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
		for _, line := range lines {
			if _, err := c.ledger.RecordMovement(ctx, repos, inventory.MovementInput{
				ProductID:   line.ProductID,
				Type:        entity.MovementTypeIN,
				Quantity:    line.Quantity,
				Reason:      entity.ReasonSaleVoid,
				Reversal:    true,
				UserID:      actorID,
				ReferenceID: sale.ID,
				Notes:       sale.Number,
			}); err != nil {
				return err
			}
		}

		now := c.now()
		if err := repos.Sales.MarkVoided(ctx, sale.ID, now, actorID); err != nil {
			return err
		}
		sale.State = next
		sale.VoidedAt = &now
		sale.VoidedBy = actorID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// GetSale venta con su detalle.
func (c *Coordinator) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := c.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, &domain.NotFoundError{Entity: "venta", ID: id}
	}
	return sale, nil
}

// ListSales lectura pura; estado y rango de fechas se combinan con AND.
func (c *Coordinator) ListSales(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	if filter.State != "" && !filter.State.IsValid() {
		return nil, domain.Invalid("estado", "debe ser completada o anulada")
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
	return c.saleRepo.List(ctx, filter)
}
