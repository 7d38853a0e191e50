package entity

import "time"

// Supplier proveedor de mercadería.
type Supplier struct {
	ID           string
	RUC          string
	BusinessName string // razón social
	Contact      string
	Email        string
	Phone        string
	Address      string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
