package entity

import "time"

// Tipos de movimiento del kardex.
const (
	MovementTypeIN         = "entrada"
	MovementTypeOUT        = "salida"
	MovementTypeADJUSTMENT = "ajuste"
)

// Motivos estándar usados por los coordinadores.
const (
	ReasonSale          = "venta"
	ReasonSaleVoid      = "anulación de venta"
	ReasonPurchase      = "compra"
	ReasonPhysicalCount = "conteo físico"
)

// Movement es un registro inmutable del kardex.
// Quantity siempre es positiva; la dirección del cambio está en StockBefore/StockAfter.
type Movement struct {
	ID          string
	ProductID   string
	Type        string
	Quantity    int
	Reason      string
	ReferenceID string // venta o compra origen; vacío si es manual
	StockBefore int
	StockAfter  int
	UserID      string
	Notes       string
	Date        time.Time
}

// Delta cambio firmado aplicado al stock.
func (m *Movement) Delta() int {
	return m.StockAfter - m.StockBefore
}

// IsValidMovementType valida el tipo de movimiento.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT:
		return true
	}
	return false
}
