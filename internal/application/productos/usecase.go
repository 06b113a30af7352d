package productos

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-inventario/internal/application/dto"
	"github.com/jhoicas/sistema-inventario/internal/domain"
	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
	"github.com/jhoicas/sistema-inventario/internal/domain/repository"
)

const (
	defaultSortField = "fecha_registro"
	maxPageSize      = 100
)

// allowedSortFields campos de ordenamiento permitidos en el listado.
var allowedSortFields = map[string]struct{}{
	"id":             {},
	"nombre":         {},
	"categoria":      {},
	"proveedor":      {},
	"precio":         {},
	"stock":          {},
	defaultSortField: {},
}

// ProductoUseCase CRUD de catálogo. La edición directa de stock por esta vía
// no escribe en el ledger de movimientos (vía de mutación independiente).
type ProductoUseCase struct {
	productoRepo repository.ProductoRepository
	cliente      CatalogoExternoClient
}

// NewProductoUseCase construye el caso de uso. cliente puede ser nil si la
// sincronización externa no está habilitada.
func NewProductoUseCase(productoRepo repository.ProductoRepository, cliente CatalogoExternoClient) *ProductoUseCase {
	return &ProductoUseCase{productoRepo: productoRepo, cliente: cliente}
}

// List lista productos con búsqueda, filtro por categoría, paginación y
// ordenamiento con allow-list (los campos fuera de lista caen al default).
func (uc *ProductoUseCase) List(in dto.ListProductosRequest) (*dto.ProductoListResponse, error) {
	page := in.Page
	if page < 0 {
		page = 0
	}
	size := in.Size
	if size < 1 {
		size = 20
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	sortBy := in.SortBy
	if _, ok := allowedSortFields[sortBy]; !ok {
		sortBy = defaultSortField
	}
	sortDesc := !strings.EqualFold(in.SortDir, "asc")

	filter := repository.ProductoFilter{
		Search:    strings.TrimSpace(in.Search),
		Categoria: strings.TrimSpace(in.Categoria),
		SortBy:    sortBy,
		SortDesc:  sortDesc,
		Limit:     size,
		Offset:    page * size,
	}
	items, total, err := uc.productoRepo.List(filter)
	if err != nil {
		return nil, err
	}

	out := &dto.ProductoListResponse{
		Items: make([]dto.ProductoResponse, 0, len(items)),
		Page: dto.PageResponse{
			Page:       page,
			Size:       size,
			Total:      total,
			TotalPages: (total + size - 1) / size,
		},
	}
	for _, p := range items {
		out.Items = append(out.Items, dto.ProductoFromEntity(p))
	}
	return out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductoUseCase) GetByID(id string) (*dto.ProductoResponse, error) {
	producto, err := uc.productoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.NewNoEncontrado("Producto", "id", id)
	}
	resp := dto.ProductoFromEntity(producto)
	return &resp, nil
}

// Create crea un producto. El nombre debe ser único en el catálogo.
func (uc *ProductoUseCase) Create(in dto.CreateProductoRequest) (*dto.ProductoResponse, error) {
	nombre := strings.TrimSpace(in.Nombre)
	categoria := strings.TrimSpace(in.Categoria)
	proveedor := strings.TrimSpace(in.Proveedor)
	if err := validarCampos(nombre, categoria, proveedor, in.Precio, in.Stock); err != nil {
		return nil, err
	}

	existe, err := uc.productoRepo.ExistsByNombre(nombre, "")
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, fmt.Errorf("%w: ya existe un producto con el nombre: %s", domain.ErrDuplicado, nombre)
	}

	producto := &entity.Producto{
		ID:            uuid.New().String(),
		Nombre:        nombre,
		Categoria:     categoria,
		Proveedor:     proveedor,
		Precio:        in.Precio,
		Stock:         in.Stock,
		Version:       0,
		FechaRegistro: time.Now(),
	}
	if err := uc.productoRepo.Create(producto); err != nil {
		return nil, err
	}
	resp := dto.ProductoFromEntity(producto)
	return &resp, nil
}

// Update actualiza un producto existente con concurrencia optimista: el
// cliente envía la versión que leyó y el update falla con
// ErrConflictoConcurrencia si la fila avanzó. Permite fijar stock directamente
// (vía de catálogo, sin registro en el ledger).
func (uc *ProductoUseCase) Update(id string, in dto.UpdateProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := uc.productoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.NewNoEncontrado("Producto", "id", id)
	}

	nombre := strings.TrimSpace(in.Nombre)
	categoria := strings.TrimSpace(in.Categoria)
	proveedor := strings.TrimSpace(in.Proveedor)
	if err := validarCampos(nombre, categoria, proveedor, in.Precio, in.Stock); err != nil {
		return nil, err
	}

	if nombre != producto.Nombre {
		existe, err := uc.productoRepo.ExistsByNombre(nombre, id)
		if err != nil {
			return nil, err
		}
		if existe {
			return nil, fmt.Errorf("%w: ya existe otro producto con el nombre: %s", domain.ErrDuplicado, nombre)
		}
	}

	producto.Nombre = nombre
	producto.Categoria = categoria
	producto.Proveedor = proveedor
	producto.Precio = in.Precio
	producto.Stock = in.Stock
	producto.Version = in.Version
	if err := uc.productoRepo.Update(producto); err != nil {
		return nil, err
	}
	producto.Version++

	resp := dto.ProductoFromEntity(producto)
	return &resp, nil
}

// Delete elimina un producto por ID.
func (uc *ProductoUseCase) Delete(id string) error {
	producto, err := uc.productoRepo.GetByID(id)
	if err != nil {
		return err
	}
	if producto == nil {
		return domain.NewNoEncontrado("Producto", "id", id)
	}
	return uc.productoRepo.Delete(id)
}

func validarCampos(nombre, categoria, proveedor string, precio decimal.Decimal, stock int32) error {
	if nombre == "" {
		return fmt.Errorf("%w: el nombre del producto es obligatorio", domain.ErrEntradaInvalida)
	}
	if len(nombre) > 200 {
		return fmt.Errorf("%w: el nombre no puede exceder 200 caracteres", domain.ErrEntradaInvalida)
	}
	if categoria == "" {
		return fmt.Errorf("%w: la categoría es obligatoria", domain.ErrEntradaInvalida)
	}
	if len(categoria) > 100 {
		return fmt.Errorf("%w: la categoría no puede exceder 100 caracteres", domain.ErrEntradaInvalida)
	}
	if len(proveedor) > 150 {
		return fmt.Errorf("%w: el proveedor no puede exceder 150 caracteres", domain.ErrEntradaInvalida)
	}
	if precio.IsNegative() {
		return fmt.Errorf("%w: el precio debe ser mayor o igual a 0", domain.ErrEntradaInvalida)
	}
	if precio.Exponent() < -2 {
		return fmt.Errorf("%w: el precio debe tener máximo 2 decimales", domain.ErrEntradaInvalida)
	}
	if stock < 0 {
		return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrEntradaInvalida)
	}
	return nil
}
