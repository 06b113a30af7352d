package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistema-inventario/internal/application/dto"
	"github.com/jhoicas/sistema-inventario/internal/application/productos"
)

// ProductoHandler maneja las peticiones HTTP del catálogo de productos (protegido).
type ProductoHandler struct {
	uc *productos.ProductoUseCase
}

// NewProductoHandler construye el handler.
func NewProductoHandler(uc *productos.ProductoUseCase) *ProductoHandler {
	return &ProductoHandler{uc: uc}
}

// List godoc
// @Summary      Listar productos
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Búsqueda por nombre o proveedor"
// @Param        categoria  query  string  false  "Filtro por categoría"
// @Param        page       query  int     false  "Página (desde 0)"  default(0)
// @Param        size       query  int     false  "Tamaño de página"  default(20)
// @Param        sort_by    query  string  false  "Campo de ordenamiento"  default(fecha_registro)
// @Param        sort_dir   query  string  false  "asc o desc"  default(desc)
// @Success      200  {object}  dto.ProductoListResponse
// @Router       /api/productos [get]
func (h *ProductoHandler) List(c *fiber.Ctx) error {
	var in dto.ListProductosRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	out, err := h.uc.List(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [get]
func (h *ProductoHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         productos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductoRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productos [post]
func (h *ProductoHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         productos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductoRequest  true  "Datos a actualizar (incluye version leída)"
// @Success      200   {object}  dto.ProductoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [put]
func (h *ProductoHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateProductoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         productos
// @Security     Bearer
// @Param        id  path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [delete]
func (h *ProductoHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Sync godoc
// @Summary      Sincronizar catálogo desde FakeStore API
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/productos/sync [post]
func (h *ProductoHandler) Sync(c *fiber.Ctx) error {
	insertados, err := h.uc.SyncDesdeFakeStore(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SyncResponse{
		Insertados: insertados,
		Mensaje:    fmt.Sprintf("sincronización completada: %d productos insertados", insertados),
	})
}
