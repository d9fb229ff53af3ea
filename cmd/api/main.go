package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// backend agrupa los adaptadores de persistencia elegidos por DB_DRIVER.
type backend struct {
	txRunner      inventory.TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	txRepo        repository.InventoryTransactionRepository
	close         func()
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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be, err := openBackend(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("inicializar persistencia")
	}
	defer be.close()

	svc := inventory.NewService(be.txRunner, be.productRepo, be.warehouseRepo, be.txRepo, log, inventory.Config{
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		RecentLimit:       cfg.Inventory.RecentLimit,
		MaxAttempts:       cfg.Inventory.MaxRetries,
		Actor:             cfg.Inventory.Actor,
	})
	reportUC := inventory.NewReportUseCase(svc, infrapdf.NewMarotoReportGenerator(cfg.App.Name))
	warehouseUC := usecase.NewWarehouseUseCase(be.warehouseRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestContext(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Almacén API",
		}))
	} else {
		log.Warn().Msg("docs/swagger.json no encontrado, Swagger UI deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db_driver": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Inventory:   svc,
		Reports:     reportUC,
		WarehouseUC: warehouseUC,
		Log:         log,
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

// openBackend abre PostgreSQL (aplicando migraciones) o el almacén en memoria.
func openBackend(ctx context.Context, cfg config.DBConfig) (*backend, error) {
	if cfg.Driver == config.DriverMemory {
		store := memory.NewStore()
		return &backend{
			txRunner:      memory.NewTxRunner(store),
			productRepo:   memory.NewProductRepository(store),
			warehouseRepo: memory.NewWarehouseRepository(store),
			txRepo:        memory.NewInventoryTransactionRepository(store),
			close:         func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &backend{
		txRunner:      postgres.NewTxRunner(pool, cfg.LockTimeout),
		productRepo:   postgres.NewProductRepository(pool),
		warehouseRepo: postgres.NewWarehouseRepository(pool),
		txRepo:        postgres.NewInventoryTransactionRepository(pool),
		close:         pool.Close,
	}, nil
}
