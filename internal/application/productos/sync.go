package productos

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
)

const (
	proveedorFakeStore = "FakeStore API"
	categoriaDefault   = "Sin categoría"
	syncBatchSize      = 1000
)

// SyncDesdeFakeStore importa el catálogo externo: inserta los productos cuyo
// nombre no existe aún (stock 0, proveedor fijo) y omite el resto. Devuelve la
// cantidad insertada. Una respuesta vacía del cliente no es error.
func (uc *ProductoUseCase) SyncDesdeFakeStore(ctx context.Context) (int, error) {
	if uc.cliente == nil {
		return 0, fmt.Errorf("sincronización externa no habilitada")
	}

	externos, err := uc.cliente.GetProductos(ctx)
	if err != nil {
		return 0, fmt.Errorf("consultar catálogo externo: %w", err)
	}
	if len(externos) == 0 {
		return 0, nil
	}

	nombres := make([]string, 0, len(externos))
	for _, e := range externos {
		if n := sanitizar(e.Title); n != "" {
			nombres = append(nombres, n)
		}
	}
	if len(nombres) == 0 {
		return 0, nil
	}

	existentes, err := uc.productoRepo.FindNombresExistentes(nombres)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	vistos := make(map[string]struct{}, len(externos))
	nuevos := make([]*entity.Producto, 0, len(externos))
	for _, e := range externos {
		nombre := sanitizar(e.Title)
		if nombre == "" {
			continue
		}
		if _, ok := existentes[nombre]; ok {
			continue
		}
		// El feed externo puede repetir títulos dentro de la misma respuesta.
		if _, ok := vistos[nombre]; ok {
			continue
		}
		vistos[nombre] = struct{}{}

		categoria := sanitizar(e.Category)
		if categoria == "" {
			categoria = categoriaDefault
		}
		precio := decimal.Zero
		if e.Price >= 0 {
			precio = decimal.NewFromFloat(e.Price).Round(2)
		}

		nuevos = append(nuevos, &entity.Producto{
			ID:            uuid.New().String(),
			Nombre:        nombre,
			Categoria:     categoria,
			Proveedor:     proveedorFakeStore,
			Precio:        precio,
			Stock:         0,
			FechaRegistro: now,
		})
	}
	if len(nuevos) == 0 {
		return 0, nil
	}

	total := 0
	for i := 0; i < len(nuevos); i += syncBatchSize {
		end := i + syncBatchSize
		if end > len(nuevos) {
			end = len(nuevos)
		}
		n, err := uc.productoRepo.CreateBatch(nuevos[i:end])
		total += n
		if err != nil {
			// Lotes anteriores ya confirmados: reportar lo insertado junto al error.
			return total, fmt.Errorf("insertar lote de sincronización: %w", err)
		}
	}
	return total, nil
}

// sanitizar recorta y escapa HTML; los títulos externos no son confiables.
func sanitizar(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return html.EscapeString(s)
}
