package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCustomerRequest entrada para registrar un cliente.
type CreateCustomerRequest struct {
	DocumentType   string `json:"document_type" validate:"required,oneof=DNI RUC CE"`
	DocumentNumber string `json:"document_number" validate:"required,min=8,max=15"`
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"max=100"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone" validate:"max=20"`
	Address        string `json:"address" validate:"max=200"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID             string    `json:"id"`
	DocumentType   string    `json:"document_type"`
	DocumentNumber string    `json:"document_number"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateSupplierRequest entrada para registrar un proveedor.
type CreateSupplierRequest struct {
	RUC          string `json:"ruc" validate:"required,len=11,numeric"`
	BusinessName string `json:"business_name" validate:"required,max=200"`
	Contact      string `json:"contact" validate:"max=100"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"max=20"`
	Address      string `json:"address" validate:"max=200"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID           string    `json:"id"`
	RUC          string    `json:"ruc"`
	BusinessName string    `json:"business_name"`
	Contact      string    `json:"contact"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
