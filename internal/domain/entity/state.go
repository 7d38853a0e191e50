package entity

import "github.com/jhoicas/comercializacion-api/internal/domain"

// SaleState estado de una venta.
type SaleState string

const (
	SaleCompleted SaleState = "completada"
	SaleVoided    SaleState = "anulada"
)

// Operaciones sobre ventas.
const (
	SaleOpVoid = "anular"
)

// Transition aplica op al estado actual. Única arista: completada -> anulada.
func (s SaleState) Transition(op string) (SaleState, error) {
	if s == SaleCompleted && op == SaleOpVoid {
		return SaleVoided, nil
	}
	return s, &domain.InvalidStateError{Entity: "venta", Current: string(s), Operation: op}
}

// IsValid indica si el estado es conocido.
func (s SaleState) IsValid() bool {
	return s == SaleCompleted || s == SaleVoided
}

// PurchaseState estado de una compra.
type PurchaseState string

const (
	PurchasePending   PurchaseState = "pendiente"
	PurchaseReceived  PurchaseState = "recibida"
	PurchaseCancelled PurchaseState = "cancelada"
)

// Operaciones sobre compras.
const (
	PurchaseOpReceive = "recibir"
	PurchaseOpCancel  = "cancelar"
)

// Transition pendiente -> recibida | cancelada; los estados finales no aceptan operaciones.
func (s PurchaseState) Transition(op string) (PurchaseState, error) {
	if s == PurchasePending {
		switch op {
		case PurchaseOpReceive:
			return PurchaseReceived, nil
		case PurchaseOpCancel:
			return PurchaseCancelled, nil
		}
	}
	return s, &domain.InvalidStateError{Entity: "compra", Current: string(s), Operation: op}
}

// IsTerminal indica si el estado ya no admite transiciones.
func (s PurchaseState) IsTerminal() bool {
	return s == PurchaseReceived || s == PurchaseCancelled
}

// IsValid indica si el estado es conocido.
func (s PurchaseState) IsValid() bool {
	return s == PurchasePending || s == PurchaseReceived || s == PurchaseCancelled
}
