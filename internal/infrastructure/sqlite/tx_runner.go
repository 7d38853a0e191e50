package sqlite

import (
	"context"
	"database/sql"

	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción BEGIN IMMEDIATE.
// fn solo debe usar los repos recibidos: la base tiene una única conexión.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run Commit si fn devuelve nil, Rollback en otro caso.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "begin transaction", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

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
	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "commit transaction", Err: err}
	}
	return nil
}
