// Package testutil fixtures para tests: almacén SQLite en memoria y datos semilla.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/infrastructure/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword contraseña de los usuarios semilla.
const DefaultPassword = "secreto123"

// NewStore base en memoria propia del test, cerrada al terminar.
func NewStore(t testing.TB) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(fmt.Sprintf("file:test-%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// SeedCategory crea una categoría activa.
func SeedCategory(t testing.TB, store *sqlite.Store, name string) *entity.Category {
	t.Helper()
	now := time.Now().UTC()
	c := &entity.Category{ID: uuid.NewString(), Name: name, Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Categories().Create(context.Background(), c))
	return c
}

// ProductOpts datos opcionales de SeedProduct.
type ProductOpts struct {
	Stock         int
	MinStock      int
	SalePrice     string
	PurchasePrice string
	Inactive      bool
}

// SeedProduct crea un producto con stock inicial = stock actual.
// El stock inicial no genera movimiento, igual que el alta por API.
func SeedProduct(t testing.TB, store *sqlite.Store, categoryID, code string, opts ProductOpts) *entity.Product {
	t.Helper()
	if opts.SalePrice == "" {
		opts.SalePrice = "10.00"
	}
	if opts.PurchasePrice == "" {
		opts.PurchasePrice = "6.00"
	}
	now := time.Now().UTC()
	p := &entity.Product{
		ID:            uuid.NewString(),
		Code:          code,
		Name:          "Producto " + code,
		CategoryID:    categoryID,
		PurchasePrice: decimal.RequireFromString(opts.PurchasePrice),
		SalePrice:     decimal.RequireFromString(opts.SalePrice),
		InitialStock:  opts.Stock,
		CurrentStock:  opts.Stock,
		MinStock:      opts.MinStock,
		Active:        !opts.Inactive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

// SeedCustomer crea un cliente activo con DNI.
func SeedCustomer(t testing.TB, store *sqlite.Store, document string) *entity.Customer {
	t.Helper()
	now := time.Now().UTC()
	c := &entity.Customer{
		ID:             uuid.NewString(),
		DocumentType:   "DNI",
		DocumentNumber: document,
		FirstName:      "Cliente",
		LastName:       document,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, store.Customers().Create(context.Background(), c))
	return c
}

// SeedSupplier crea un proveedor activo.
func SeedSupplier(t testing.TB, store *sqlite.Store, ruc string) *entity.Supplier {
	t.Helper()
	now := time.Now().UTC()
	s := &entity.Supplier{
		ID:           uuid.NewString(),
		RUC:          ruc,
		BusinessName: "Proveedor " + ruc,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Suppliers().Create(context.Background(), s))
	return s
}

// SeedUser crea un usuario activo con DefaultPassword.
func SeedUser(t testing.TB, store *sqlite.Store, username, role string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	u := &entity.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@tienda.pe",
		PasswordHash: string(hash),
		Name:         username,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

// Stock lee el stock actual del producto.
func Stock(t testing.TB, store *sqlite.Store, productID string) int {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStock
}
