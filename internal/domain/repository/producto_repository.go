package repository

import (
	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
)

// ProductoFilter filtros y paginación para el listado de productos.
// SortBy debe venir ya validado contra la allow-list del caso de uso.
type ProductoFilter struct {
	Search    string // busca en nombre y proveedor (ILIKE)
	Categoria string
	SortBy    string
	SortDesc  bool
	Limit     int
	Offset    int
}

// ProductoRepository define el puerto de persistencia para Producto (DIP).
//
// Update y ActualizarStock usan concurrencia optimista: el escritor presenta
// la Version que leyó; si la fila avanzó de versión, el adaptador devuelve
// domain.ErrConflictoConcurrencia y no escribe nada.
type ProductoRepository interface {
	Create(producto *entity.Producto) error
	CreateBatch(productos []*entity.Producto) (int, error)
	GetByID(id string) (*entity.Producto, error)
	List(filter ProductoFilter) ([]*entity.Producto, int, error)
	Update(producto *entity.Producto) error
	ActualizarStock(productoID string, nuevoStock int32, versionEsperada int64) error
	Delete(id string) error
	ExistsByNombre(nombre, excluirID string) (bool, error)
	FindNombresExistentes(nombres []string) (map[string]struct{}, error)
}
