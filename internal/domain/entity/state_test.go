package entity

import (
	"errors"
	"testing"

	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleState_Transition(t *testing.T) {
	next, err := SaleCompleted.Transition(SaleOpVoid)
	require.NoError(t, err)
	assert.Equal(t, SaleVoided, next)

	next, err = SaleVoided.Transition(SaleOpVoid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidState), "anular dos veces debe ser InvalidState")
	assert.Equal(t, SaleVoided, next)
}

func TestPurchaseState_Transition(t *testing.T) {
	tests := []struct {
		name    string
		from    PurchaseState
		op      string
		want    PurchaseState
		wantErr bool
	}{
		{"recibir pendiente", PurchasePending, PurchaseOpReceive, PurchaseReceived, false},
		{"cancelar pendiente", PurchasePending, PurchaseOpCancel, PurchaseCancelled, false},
		{"recibir recibida", PurchaseReceived, PurchaseOpReceive, PurchaseReceived, true},
		{"cancelar recibida", PurchaseReceived, PurchaseOpCancel, PurchaseReceived, true},
		{"recibir cancelada", PurchaseCancelled, PurchaseOpReceive, PurchaseCancelled, true},
		{"operación desconocida", PurchasePending, "borrar", PurchasePending, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Transition(tt.op)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				var stateErr *domain.InvalidStateError
				require.ErrorAs(t, err, &stateErr)
				assert.Equal(t, string(tt.from), stateErr.Current)
				return
			}
			require.NoError(t, err)
		})
	}
	assert.True(t, PurchaseReceived.IsTerminal())
	assert.True(t, PurchaseCancelled.IsTerminal())
	assert.False(t, PurchasePending.IsTerminal())
}

func TestNextDocumentNumber(t *testing.T) {
	series := DocumentSeries("BOL", 2026)
	assert.Equal(t, "BOL-2026-0001", NextDocumentNumber(series, "", SaleNumberWidth))
	assert.Equal(t, "BOL-2026-0043", NextDocumentNumber(series, "BOL-2026-0042", SaleNumberWidth))
	assert.Equal(t, "BOL-2026-0001", NextDocumentNumber(series, "BOL-2025-0099", SaleNumberWidth), "cambio de año reinicia la serie")
	assert.Equal(t, "COM-2026-1000", NextDocumentNumber("COM-2026-", "COM-2026-999", PurchaseNumberWidth))
}

func TestMovement_Delta(t *testing.T) {
	out := Movement{Type: MovementTypeOUT, Quantity: 8, StockBefore: 10, StockAfter: 2}
	assert.Equal(t, -8, out.Delta())
	adj := Movement{Type: MovementTypeADJUSTMENT, Quantity: 3, StockBefore: 2, StockAfter: 5}
	assert.Equal(t, 3, adj.Delta())
}

func TestProduct_LowStock(t *testing.T) {
	p := Product{CurrentStock: 5, MinStock: 5}
	assert.True(t, p.IsLowStock(), "stock igual al mínimo cuenta como bajo")
	assert.Equal(t, 0, p.Deficit())
	p.CurrentStock = 2
	assert.Equal(t, 3, p.Deficit())
}
