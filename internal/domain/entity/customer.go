package entity

import "time"

// Customer representa un cliente (DNI o RUC).
type Customer struct {
	ID             string
	DocumentType   string // DNI, RUC, CE
	DocumentNumber string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Address        string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName nombres y apellidos.
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
