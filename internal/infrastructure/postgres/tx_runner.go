package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/sistema-inventario/internal/application/movimientos"
	"github.com/jhoicas/sistema-inventario/internal/domain/repository"
)

// Ensure TxRunner implements movimientos.TxRunner.
var _ movimientos.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es la
// frontera de atomicidad del motor de movimientos: las dos escrituras
// (movimiento + stock) se confirman o descartan juntas.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los errores de fn (incluido ErrConflictoConcurrencia)
// salen sin envolver para que el caller los identifique con errors.Is.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovimientoRepository,
	productoRepo repository.ProductoRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovimientoRepository(tx)
	productoRepo := NewProductoRepository(tx)

	if err := fn(movRepo, productoRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
