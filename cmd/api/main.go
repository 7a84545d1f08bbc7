package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/badges"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/jsonstore"
	"github.com/jhoicas/almacen-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// storage los tres puertos de persistencia y cómo liberarlos.
type storage struct {
	ops      repository.OperationLogRepository
	inv      repository.InventoryRepository
	settings repository.SettingsRepository
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.DriverPostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
		repos := postgres.NewRepositories(pool)
		return &storage{ops: repos.Operations, inv: repos.Inventory, settings: repos.Settings, close: pool.Close}, nil
	}

	store, err := jsonstore.New(cfg.Storage.DataDir, log)
	if err != nil {
		return nil, err
	}
	return &storage{ops: store, inv: store, settings: store, close: func() {}}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	if cfg.Auth.PassphraseHash == "" {
		log.Warn().Msg("AUTH_PASSPHRASE_HASH vacío: no se emitirán tokens")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer store.close()

	prom := metrics.NewPrometheus()
	svc := inventory.NewService(store.ops, store.inv, store.settings, prom, log,
		inventory.WithDefaultSettings(entity.Settings{
			Organizations: cfg.Catalog.Organizations,
			Operators:     cfg.Catalog.Operators,
		}),
	)
	if err := svc.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar log e inventario")
	}

	pdfGenerator, err := infrapdf.NewMarotoPDFGenerator(cfg.PDF.FontPath)
	if err != nil {
		log.Fatal().Err(err).Msg("generador PDF")
	}

	appCfg := httpRouter.AppConfig{Name: cfg.App.Name, DocsPath: cfg.Docs.Path}
	if cfg.Metrics.Enabled {
		appCfg.Metrics = prom.Handler()
	}
	app := httpRouter.NewApp(appCfg, httpRouter.RouterDeps{
		Inventory: svc,
		Badges:    badges.NewUseCase(pdfGenerator, log),
		Reports:   pdfGenerator,
		Auth:      cfg.Auth,
		JWT:       cfg.JWT,
		Logger:    log,
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
