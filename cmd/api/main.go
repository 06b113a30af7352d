package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/sistema-inventario/internal/application/auth"
	"github.com/jhoicas/sistema-inventario/internal/application/movimientos"
	"github.com/jhoicas/sistema-inventario/internal/application/productos"
	"github.com/jhoicas/sistema-inventario/internal/infrastructure/fakestore"
	infrapdf "github.com/jhoicas/sistema-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/sistema-inventario/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/sistema-inventario/internal/interfaces/http"
	"github.com/jhoicas/sistema-inventario/pkg/config"
	"github.com/jhoicas/sistema-inventario/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productoRepo := postgres.NewProductoRepository(pool)
	movimientoRepo := postgres.NewMovimientoRepository(pool)
	usuarioRepo := postgres.NewUsuarioRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	fakeStoreClient := fakestore.NewClient(cfg.Sync.FakeStoreURL)
	kardexGenerator := infrapdf.NewKardexPDFGenerator()

	productoUC := productos.NewProductoUseCase(productoRepo, fakeStoreClient)
	movimientoUC := movimientos.NewRegistrarMovimientoUseCase(txRunner, productoRepo, movimientoRepo, kardexGenerator)
	authUC := auth.NewAuthUseCase(usuarioRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Usuario admin inicial para poder operar la API recién desplegada.
	creado, err := authUC.EnsureAdminPorDefecto("admin", "admin123", "admin@inventario.com")
	if err != nil {
		log.Fatal().Err(err).Msg("crear usuario admin por defecto")
	}
	if creado {
		log.Warn().Msg("usuario admin por defecto creado, cambie la contraseña")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Sistema Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductoUC:   productoUC,
		MovimientoUC: movimientoUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
