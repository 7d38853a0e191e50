package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Errores que no son del dominio (begin, commit, driver) se devuelven como PersistenceError.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return &domain.PersistenceError{Op: "begin transaction", Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := repository.TxRepos{
		Products:  NewProductRepository(tx),
		Movements: NewMovementRepository(tx),
		Sales:     NewSaleRepository(tx),
		Purchases: NewPurchaseRepository(tx),
	}
	if err := fn(repos); err != nil {
		if domain.IsDomainError(err) {
			return err
		}
		return &domain.PersistenceError{Op: "transaction", Err: err}
	}
	if err := tx.Commit(ctx); err != nil {
		return &domain.PersistenceError{Op: "commit transaction", Err: err}
	}
	return nil
}
