// Package sqlite almacenamiento embebido sobre SQLite (mattn/go-sqlite3) con los mismos puertos
// que el adaptador PostgreSQL. Pensado para una sola tienda, demos y tests.
//
// SQLite no tiene SELECT ... FOR UPDATE: las transacciones se abren con BEGIN IMMEDIATE
// (_txlock=immediate) sobre una única conexión, así que los escritores quedan serializados
// y el bloqueo de fila del kardex es implícito.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// Store conexión SQLite con el esquema aplicado.
type Store struct {
	db *sql.DB
}

// Open abre (o crea) la base en path y aplica el esquema. Acepta una ruta de archivo,
// ":memory:" o un DSN "file:...".
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// Una sola conexión: serializa escritores y mantiene viva la base en memoria.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("aplicar esquema: %w", err)
	}
	return &Store{db: db}, nil
}

func dsn(path string) string {
	params := "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
	if path == ":memory:" {
		return "file::memory:?" + params
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
		params += "&_journal_mode=WAL"
	}
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}

// DB conexión subyacente.
func (s *Store) DB() *sql.DB { return s.db }

// Close cierra la base.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifica la conexión (health check).
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Repositorios sobre la conexión (fuera de transacción).

func (s *Store) Products() *ProductRepo    { return NewProductRepository(s.db) }
func (s *Store) Movements() *MovementRepo  { return NewMovementRepository(s.db) }
func (s *Store) Sales() *SaleRepo          { return NewSaleRepository(s.db) }
func (s *Store) Purchases() *PurchaseRepo  { return NewPurchaseRepository(s.db) }
func (s *Store) Categories() *CategoryRepo { return NewCategoryRepository(s.db) }
func (s *Store) Customers() *CustomerRepo  { return NewCustomerRepository(s.db) }
func (s *Store) Suppliers() *SupplierRepo  { return NewSupplierRepository(s.db) }
func (s *Store) Users() *UserRepo          { return NewUserRepository(s.db) }
func (s *Store) TxRunner() *TxRunner       { return NewTxRunner(s.db) }
