package http

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/badges"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/jwt"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Inventory *inventory.Service
	Badges    *badges.UseCase
	Reports   ReportGenerator
	Auth      config.AuthConfig
	JWT       config.JWTConfig
	Logger    *logger.Logger
	Now       func() time.Time
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(auth.NewUseCase(auth.Config{
		PassphraseHash: deps.Auth.PassphraseHash,
		Admins:         deps.Auth.Admins,
		Secret:         deps.JWT.Secret,
		ExpMinutes:     deps.JWT.Expiration,
		Issuer:         deps.JWT.Issuer,
	}), log.Named("auth"))
	api.Post("/auth/token", authHandler.Token)

	protected := api.Group("", AuthMiddleware(deps.JWT.Secret))
	adminOnly := RequireRole(jwt.RoleAdmin)

	opHandler := NewOperationHandler(deps.Inventory, log.Named("http"), now)
	protected.Get("/operations", opHandler.List)
	protected.Post("/operations", opHandler.Record)
	protected.Post("/operations/import", adminOnly, opHandler.Import)
	protected.Get("/operations/export", opHandler.Export)

	// Las rutas fijas van antes de /inventory/:itemId.
	invHandler := NewInventoryHandler(deps.Inventory, deps.Reports, log.Named("http"), now)
	protected.Get("/inventory", invHandler.List)
	protected.Get("/inventory/next-id", invHandler.NextID)
	protected.Get("/inventory/export", invHandler.Export)
	protected.Get("/inventory/report.pdf", invHandler.Report)
	protected.Post("/inventory/rebuild", adminOnly, invHandler.Rebuild)
	protected.Get("/inventory/:itemId", invHandler.Get)
	protected.Put("/inventory/:itemId/note", invHandler.SetNote)

	settingsHandler := NewSettingsHandler(deps.Inventory, log.Named("http"))
	protected.Get("/settings", settingsHandler.Get)
	protected.Put("/settings", adminOnly, settingsHandler.Update)

	badgeHandler := NewBadgeHandler(deps.Badges, log.Named("http"))
	protected.Post("/badges", badgeHandler.Generate)
}

// AppConfig piezas públicas del servidor.
type AppConfig struct {
	Name     string
	DocsPath string       // swagger.json; si no existe, /docs no se monta
	Metrics  http.Handler // nil desactiva /metrics
}

// NewApp arma la aplicación Fiber con recover, /health, /metrics, /docs y las rutas de la API.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			code := "INTERNAL"
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
				if status == fiber.StatusNotFound {
					code = "ROUTE_NOT_FOUND"
				}
			}
			return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
		},
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.DocsPath != "" {
		if _, err := os.Stat(cfg.DocsPath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.DocsPath,
				Path:     "docs",
				Title:    "Almacén API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	Router(app, deps)
	return app
}
