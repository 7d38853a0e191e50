package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

// AdjustmentCoordinator correcciones manuales de stock (mermas, roturas, conteos físicos).
// Cada ajuste es su propia transacción y pasa por el StockLedger.
type AdjustmentCoordinator struct {
	txRunner repository.TxRunner
	ledger   *StockLedger
}

// NewAdjustmentCoordinator construye el coordinador de ajustes.
func NewAdjustmentCoordinator(txRunner repository.TxRunner, ledger *StockLedger) *AdjustmentCoordinator {
	return &AdjustmentCoordinator{txRunner: txRunner, ledger: ledger}
}

// AdjustmentInput delta firmado (nunca cero) y motivo obligatorio.
type AdjustmentInput struct {
	ProductID string
	Delta     int
	Reason    string
	UserID    string
	Notes     string
}

// AdjustStock registra un ajuste. Un delta negativo que deje el stock bajo cero falla con InsufficientStockError.
func (c *AdjustmentCoordinator) AdjustStock(ctx context.Context, in AdjustmentInput) (*entity.Movement, error) {
	if in.Delta == 0 {
		return nil, domain.Invalid("delta", "no puede ser cero")
	}
	if in.Delta > entity.MaxStock || in.Delta < -entity.MaxStock {
		return nil, domain.Invalid("delta", "fuera de rango")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.Invalid("motivo", "requerido")
	}
	qty, decrease := in.Delta, false
	if in.Delta < 0 {
		qty, decrease = -in.Delta, true
	}
	var mov *entity.Movement
	err := c.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		mov, err = c.ledger.RecordMovement(ctx, repos, MovementInput{
			ProductID: in.ProductID,
			Type:      entity.MovementTypeADJUSTMENT,
			Quantity:  qty,
			Decrease:  decrease,
			Reason:    strings.TrimSpace(in.Reason),
			UserID:    in.UserID,
			Notes:     in.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// CountInput resultado de un conteo físico.
type CountInput struct {
	ProductID string
	Counted   int
	Reason    string
	UserID    string
	Notes     string
}

// SetStock lleva el stock al valor contado, calculando el delta sobre la fila bloqueada.
func (c *AdjustmentCoordinator) SetStock(ctx context.Context, in CountInput) (*entity.Movement, error) {
	if in.Counted < 0 || in.Counted > entity.MaxStock {
		return nil, domain.Invalid("contado", "fuera de rango")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = entity.ReasonPhysicalCount
	}
	var mov *entity.Movement
	err := c.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		locked, err := c.ledger.LockProducts(ctx, repos, []string{in.ProductID})
		if err != nil {
			return err
		}
		delta := in.Counted - locked[in.ProductID].CurrentStock
		if delta == 0 {
			return domain.Invalid("contado", "coincide con el stock actual")
		}
		qty, decrease := delta, false
		if delta < 0 {
			qty, decrease = -delta, true
		}
		mov, err = c.ledger.RecordMovement(ctx, repos, MovementInput{
			ProductID: in.ProductID,
			Type:      entity.MovementTypeADJUSTMENT,
			Quantity:  qty,
			Decrease:  decrease,
			Reason:    reason,
			UserID:    in.UserID,
			Notes:     in.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// AdjustFromRequest adapta el request HTTP al caso de uso AdjustStock.
func (c *AdjustmentCoordinator) AdjustFromRequest(ctx context.Context, userID string, in dto.AdjustStockRequest) (*dto.MovementResponse, error) {
	mov, err := c.AdjustStock(ctx, AdjustmentInput{
		ProductID: in.ProductID,
		Delta:     in.Delta,
		Reason:    in.Reason,
		UserID:    userID,
		Notes:     in.Notes,
	})
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(mov)
	return &out, nil
}

// CountFromRequest adapta el request HTTP al caso de uso SetStock.
func (c *AdjustmentCoordinator) CountFromRequest(ctx context.Context, userID string, in dto.PhysicalCountRequest) (*dto.MovementResponse, error) {
	mov, err := c.SetStock(ctx, CountInput{
		ProductID: in.ProductID,
		Counted:   in.Counted,
		Reason:    in.Reason,
		UserID:    userID,
		Notes:     in.Notes,
	})
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(mov)
	return &out, nil
}

// ToMovementResponse convierte un movimiento a su DTO.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Delta:       m.Delta(),
		Reason:      m.Reason,
		ReferenceID: m.ReferenceID,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		UserID:      m.UserID,
		Notes:       m.Notes,
		Date:        m.Date,
	}
}
