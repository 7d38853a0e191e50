package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store agrupa los repositorios sobre el pool, con la misma forma que sqlite.Store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore construye el store. El pool lo cierra el caller.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping verifica la conexión (health check).
func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Products() *ProductRepo    { return NewProductRepository(s.pool) }
func (s *Store) Movements() *MovementRepo  { return NewMovementRepository(s.pool) }
func (s *Store) Sales() *SaleRepo          { return NewSaleRepository(s.pool) }
func (s *Store) Purchases() *PurchaseRepo  { return NewPurchaseRepository(s.pool) }
func (s *Store) Categories() *CategoryRepo { return NewCategoryRepository(s.pool) }
func (s *Store) Customers() *CustomerRepo  { return NewCustomerRepository(s.pool) }
func (s *Store) Suppliers() *SupplierRepo  { return NewSupplierRepository(s.pool) }
func (s *Store) Users() *UserRepo          { return NewUserRepository(s.pool) }
func (s *Store) TxRunner() *TxRunner       { return NewTxRunner(s.pool) }
