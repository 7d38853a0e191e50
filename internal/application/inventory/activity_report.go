package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// Períodos por defecto y máximo (en días) de los reportes de actividad.
const (
	DefaultRotationDays = 30
	DefaultIdleDays     = 60
	MaxReportDays       = 3650
)

func checkDays(days int) error {
	if days < 1 || days > MaxReportDays {
		return domain.Invalid("dias", "debe estar entre 1 y 3650")
	}
	return nil
}

// Rotation agrega las salidas de los últimos days días por producto y calcula la tasa de rotación.
func (uc *ReportUseCase) Rotation(ctx context.Context, days int) (*dto.RotationResponse, error) {
	if err := checkDays(days); err != nil {
		return nil, err
	}
	to := uc.now()
	from := to.AddDate(0, 0, -days)
	outflows, err := uc.movementRepo.SumOutflows(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := &dto.RotationResponse{Days: days, From: from, To: to, Items: make([]dto.RotationItemDTO, 0, len(outflows))}
	for _, o := range outflows {
		p, err := uc.productRepo.GetByID(ctx, o.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		rate, invDays := inventory.Turnover(o.Quantity, p.CurrentStock, days)
		out.Items = append(out.Items, dto.RotationItemDTO{
			ProductID:       p.ID,
			Code:            p.Code,
			Name:            p.Name,
			CurrentStock:    p.CurrentStock,
			SoldQuantity:    o.Quantity,
			Outflows:        o.Movements,
			TurnoverRate:    rate,
			DaysOfInventory: invDays,
		})
	}
	sort.SliceStable(out.Items, func(i, j int) bool {
		a, b := out.Items[i], out.Items[j]
		if !a.TurnoverRate.Equal(b.TurnoverRate) {
			return a.TurnoverRate.GreaterThan(b.TurnoverRate)
		}
		return a.Code < b.Code
	})
	return out, nil
}

// IdleProducts productos activos cuyo último movimiento es anterior a days días (o que nunca se movieron).
func (uc *ReportUseCase) IdleProducts(ctx context.Context, days int) (*dto.IdleProductsResponse, error) {
	if err := checkDays(days); err != nil {
		return nil, err
	}
	since := uc.now().AddDate(0, 0, -days)
	products, err := uc.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	last, err := uc.movementRepo.LastMovementDates(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.IdleProductsResponse{Days: days, Since: since, Items: []dto.IdleProductDTO{}}
	for _, p := range products {
		item := dto.IdleProductDTO{
			ProductID:      p.ID,
			Code:           p.Code,
			Name:           p.Name,
			CategoryID:     p.CategoryID,
			CurrentStock:   p.CurrentStock,
			InventoryValue: p.SalePrice.Mul(decimal.NewFromInt(int64(p.CurrentStock))).Round(2),
		}
		if t, ok := last[p.ID]; ok {
			if !t.Before(since) {
				continue
			}
			lastAt := t
			item.LastMovement = &lastAt
		}
		out.Items = append(out.Items, item)
	}
	// Sin movimientos primero, luego el más antiguo.
	sort.SliceStable(out.Items, func(i, j int) bool {
		a, b := out.Items[i].LastMovement, out.Items[j].LastMovement
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && !a.Equal(*b):
			return a.Before(*b)
		}
		return out.Items[i].Code < out.Items[j].Code
	})
	return out, nil
}

func utcNow() time.Time { return time.Now().UTC() }
