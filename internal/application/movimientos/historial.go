package movimientos

import (
	"context"
	"fmt"

	"github.com/jhoicas/sistema-inventario/internal/application/dto"
	"github.com/jhoicas/sistema-inventario/internal/domain"
)

// Historial devuelve los movimientos de un producto ordenados por fecha
// descendente (consulta bajo demanda; el producto no guarda la colección).
func (uc *RegistrarMovimientoUseCase) Historial(ctx context.Context, productoID string, limit, offset int) (*dto.MovimientoListResponse, error) {
	producto, err := uc.productoRepo.GetByID(productoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.NewNoEncontrado("Producto", "id", productoID)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	movs, err := uc.movimientoRepo.ListByProducto(productoID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := &dto.MovimientoListResponse{
		ProductoID: productoID,
		Items:      make([]dto.MovimientoResponse, 0, len(movs)),
	}
	for _, m := range movs {
		out.Items = append(out.Items, dto.MovimientoFromEntity(m, producto.Nombre))
	}
	return out, nil
}

// KardexPDF genera el kardex del producto (historial completo más reciente)
// como documento PDF.
func (uc *RegistrarMovimientoUseCase) KardexPDF(ctx context.Context, productoID string) ([]byte, error) {
	if uc.pdfGen == nil {
		return nil, fmt.Errorf("kardex pdf no habilitado")
	}
	producto, err := uc.productoRepo.GetByID(productoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.NewNoEncontrado("Producto", "id", productoID)
	}

	// Las últimas 500 filas bastan para el documento; el historial completo
	// sigue disponible paginado vía Historial.
	movs, err := uc.movimientoRepo.ListByProducto(productoID, 500, 0)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateKardexPDF(ctx, producto, movs)
}
