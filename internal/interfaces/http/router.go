package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sistema-inventario/internal/application/auth"
	"github.com/jhoicas/sistema-inventario/internal/application/movimientos"
	"github.com/jhoicas/sistema-inventario/internal/application/productos"
	"github.com/jhoicas/sistema-inventario/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductoUC   *productos.ProductoUseCase
	MovimientoUC *movimientos.RegistrarMovimientoUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Productos (protegido; sync solo ADMIN)
	productosGroup := protected.Group("/productos")
	productoHandler := NewProductoHandler(deps.ProductoUC)
	movimientoHandler := NewMovimientoHandler(deps.MovimientoUC)
	productosGroup.Get("/", productoHandler.List)
	productosGroup.Post("/", productoHandler.Create)
	productosGroup.Post("/sync", RequireRole(entity.RolAdmin), productoHandler.Sync)
	productosGroup.Get("/:id", productoHandler.GetByID)
	productosGroup.Put("/:id", productoHandler.Update)
	productosGroup.Delete("/:id", productoHandler.Delete)
	productosGroup.Get("/:id/movimientos", movimientoHandler.Historial)
	productosGroup.Get("/:id/kardex.pdf", movimientoHandler.KardexPDF)

	// Movimientos de stock (protegido, solo ADMIN)
	movGroup := protected.Group("/movimientos", RequireRole(entity.RolAdmin))
	movGroup.Post("/", movimientoHandler.Registrar)
}
