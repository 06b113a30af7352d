package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistema-inventario/internal/application/dto"
	"github.com/jhoicas/sistema-inventario/internal/application/movimientos"
)

// MovimientoHandler maneja las peticiones HTTP del motor de movimientos de
// stock (protegido, requiere rol ADMIN).
type MovimientoHandler struct {
	uc *movimientos.RegistrarMovimientoUseCase
}

// NewMovimientoHandler construye el handler.
func NewMovimientoHandler(uc *movimientos.RegistrarMovimientoUseCase) *MovimientoHandler {
	return &MovimientoHandler{uc: uc}
}

// Registrar godoc
// @Summary      Registrar movimiento de stock (ENTRADA/SALIDA)
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistrarMovimientoRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovimientoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movimientos [post]
func (h *MovimientoHandler) Registrar(c *fiber.Ctx) error {
	var in dto.RegistrarMovimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Registrar(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Historial godoc
// @Summary      Historial de movimientos de un producto
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovimientoListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/movimientos [get]
func (h *MovimientoHandler) Historial(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	out, err := h.uc.Historial(c.Context(), id, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// KardexPDF godoc
// @Summary      Kardex del producto en PDF
// @Tags         movimientos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/kardex.pdf [get]
func (h *MovimientoHandler) KardexPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	pdfBytes, err := h.uc.KardexPDF(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="kardex-%s-%s.pdf"`, id, time.Now().Format("20060102")))
	return c.Send(pdfBytes)
}
