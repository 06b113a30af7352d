package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
	"github.com/jhoicas/sistema-inventario/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

// MovimientoRepo persistencia del libro de movimientos de stock. La tabla es
// append-only: no hay Update ni Delete.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

// Create inserta un movimiento. usuario_id es nullable: movimientos del
// sistema no llevan usuario.
func (r *MovimientoRepo) Create(mov *entity.MovimientoStock) error {
	query := `
		INSERT INTO movimientos_stock (id, producto_id, tipo, cantidad, fecha, usuario_id, stock_anterior, stock_resultante)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.ProductoID, mov.Tipo, mov.Cantidad, mov.Fecha,
		nullableStr(mov.UsuarioID), mov.StockAnterior, mov.StockResultante,
	)
	if err != nil {
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

// ListByProducto lista los movimientos de un producto, del más reciente al más
// antiguo.
func (r *MovimientoRepo) ListByProducto(productoID string, limit, offset int) ([]*entity.MovimientoStock, error) {
	query := `
		SELECT id, producto_id, tipo, cantidad, fecha, usuario_id, stock_anterior, stock_resultante
		FROM movimientos_stock
		WHERE producto_id = $1
		ORDER BY fecha DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productoID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()

	var list []*entity.MovimientoStock
	for rows.Next() {
		var m entity.MovimientoStock
		var usuarioID *string
		if err := rows.Scan(&m.ID, &m.ProductoID, &m.Tipo, &m.Cantidad, &m.Fecha, &usuarioID, &m.StockAnterior, &m.StockResultante); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		if usuarioID != nil {
			m.UsuarioID = *usuarioID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
