package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxStock tope de stock y de cantidad por movimiento (columna INTEGER).
const MaxStock = math.MaxInt32

// Product representa un producto del catálogo.
// CurrentStock solo lo modifica el kardex (StockLedger); StockInicial se fija al crear.
type Product struct {
	ID            string
	Code          string // código único
	Name          string
	Description   string
	CategoryID    string
	PurchasePrice decimal.Decimal // precio de compra
	SalePrice     decimal.Decimal // precio de venta
	InitialStock  int
	CurrentStock  int
	MinStock      int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock actual está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStock
}

// Deficit cantidad faltante para llegar al stock mínimo (0 si no falta).
func (p *Product) Deficit() int {
	if p.CurrentStock >= p.MinStock {
		return 0
	}
	return p.MinStock - p.CurrentStock
}
