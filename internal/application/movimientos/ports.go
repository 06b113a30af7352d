package movimientos

import (
	"context"

	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
	"github.com/jhoicas/sistema-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la escritura del movimiento y la
// del stock del producto se confirman juntas o se descartan juntas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovimientoRepository,
		productoRepo repository.ProductoRepository,
	) error) error
}

// KardexPDFGenerator genera la representación PDF del kardex (historial de
// movimientos) de un producto.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, producto *entity.Producto, movimientos []*entity.MovimientoStock) ([]byte, error)
}
