package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Categorias-api/internal/application/usecase"
	"github.com/jhoicas/Categorias-api/internal/domain/repository"
)

var _ usecase.TxRunner = (*TxRunner)(nil)

// hierarchyLockKey llave del advisory lock que serializa los cambios de jerarquía.
const hierarchyLockKey int64 = 0x43415447 // "CATG"

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, toma el lock de jerarquía, ejecuta fn con repos atados a la tx
// y hace Commit o Rollback. El lock se libera solo al terminar la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	categories repository.CategoryRepository,
	links repository.CategoryItemRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, hierarchyLockKey); err != nil {
		return fmt.Errorf("lock jerarquía: %w", err)
	}

	if err := fn(NewCategoryRepository(tx), NewCategoryItemRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
