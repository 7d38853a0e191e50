package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleVendedor   = "vendedor"
	RoleAlmacenero = "almacenero"
)

// IsValidRole valida el rol.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleVendedor, RoleAlmacenero:
		return true
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, vendedor, almacenero
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
