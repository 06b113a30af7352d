package repository

import (
	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
)

// MovimientoRepository define el puerto de persistencia para MovimientoStock.
// Los movimientos son append-only: no hay Update ni Delete.
type MovimientoRepository interface {
	Create(movimiento *entity.MovimientoStock) error
	ListByProducto(productoID string, limit, offset int) ([]*entity.MovimientoStock, error)
}
