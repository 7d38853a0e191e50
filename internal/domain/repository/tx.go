package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products  ProductRepository
	Movements MovementRepository
	Sales     SaleRepository
	Purchases PurchaseRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD: Commit si fn devuelve nil, Rollback en otro caso.
// Es la unidad atómica del motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
