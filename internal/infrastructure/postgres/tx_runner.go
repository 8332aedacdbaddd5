package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/packages"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/subscription"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
)

// Ensure TxRunner implements packages.TxRunner y subscription.TxRunner.
var _ packages.TxRunner = (*TxRunner)(nil)
var _ subscription.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con el repositorio de paquetes atado a la tx y
// hace Commit o Rollback. La fila padre del paquete y sus filas hijas se
// escriben todo-o-nada.
func (r *TxRunner) Run(ctx context.Context, fn func(pkgRepo repository.PackageRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewPackageRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSubscription inicia una transacción con repos de suscripciones y
// paquetes (transiciones de estado, upgrade y sweep mutan ambos).
func (r *TxRunner) RunSubscription(ctx context.Context, fn func(subRepo repository.SubscriptionRepository, pkgRepo repository.PackageRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSubscriptionRepository(tx), NewPackageRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
