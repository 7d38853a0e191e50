// Package storage elige el adaptador de persistencia según DB_DRIVER.
package storage

import (
	"context"

	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/jhoicas/comercializacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/comercializacion-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/comercializacion-api/pkg/config"
	"github.com/jhoicas/comercializacion-api/pkg/logger"
)

// Repositories puertos del driver elegido. Close libera la conexión.
type Repositories struct {
	Products   repository.ProductRepository
	Movements  repository.MovementRepository
	Sales      repository.SaleRepository
	Purchases  repository.PurchaseRepository
	Categories repository.CategoryRepository
	Customers  repository.CustomerRepository
	Suppliers  repository.SupplierRepository
	Users      repository.UserRepository
	TxRunner   repository.TxRunner
	Ping       func(ctx context.Context) error
	Close      func()
}

// Open abre SQLite o PostgreSQL (aplicando migraciones) según cfg.Driver.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Repositories, error) {
	if cfg.Driver == config.DriverSQLite {
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("almacenamiento SQLite listo")
		return &Repositories{
			Products: store.Products(), Movements: store.Movements(),
			Sales: store.Sales(), Purchases: store.Purchases(),
			Categories: store.Categories(), Customers: store.Customers(),
			Suppliers: store.Suppliers(), Users: store.Users(),
			TxRunner: store.TxRunner(),
			Ping:     store.Ping,
			Close:    func() { _ = store.Close() },
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Str("host", cfg.Host).Str("db", cfg.DBName).Msg("PostgreSQL listo, esquema aplicado")
	store := postgres.NewStore(pool)
	return &Repositories{
		Products: store.Products(), Movements: store.Movements(),
		Sales: store.Sales(), Purchases: store.Purchases(),
		Categories: store.Categories(), Customers: store.Customers(),
		Suppliers: store.Suppliers(), Users: store.Users(),
		TxRunner: store.TxRunner(),
		Ping:     store.Ping,
		Close:    pool.Close,
	}, nil
}
