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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/afero"

	_ "github.com/jhoicas/tienda-api/docs"
	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/application/relations"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-api/internal/infrastructure/mongodb"
	infrapdf "github.com/jhoicas/tienda-api/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/tienda-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-api/pkg/config"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// backend repositorios fuera de transacción, el runner transaccional y su cierre.
type backend struct {
	repos    repository.Set
	txRunner ports.TxRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("conexión al almacén")
	}
	defer store.close()

	files, err := storage.NewLocalStorage(afero.NewOsFs(), cfg.Uploads.Dir, cfg.Uploads.URLPrefix)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de imágenes")
	}
	policy, err := usecase.ParseDeletePolicy(cfg.Catalog.CategoryDeletePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("CATEGORY_DELETE_POLICY")
	}

	rel := relations.NewMaintainer(store.txRunner)
	deps := httpRouter.RouterDeps{
		UserUC:     usecase.NewUserUseCase(store.repos.Users, files, log.Named("users")),
		ProductUC:  usecase.NewProductUseCase(store.repos, store.txRunner, rel, files, log.Named("products")),
		CategoryUC: usecase.NewCategoryUseCase(store.repos, store.txRunner, files, policy, log.Named("categories")),
		PlaceOrder: order.NewPlaceOrderUseCase(store.txRunner, rel, log.Named("orders")),
		OrderUC:    order.NewOrderUseCase(store.repos, store.txRunner, rel),
		ReceiptUC:  order.NewReceiptUseCase(store.repos, infrapdf.NewReceiptGenerator(cfg.App.Name)),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Uploads.MaxMB << 20,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})
	app.Static(cfg.Uploads.URLPrefix, cfg.Uploads.Dir)

	httpRouter.Router(app, deps)
	app.Use(httpRouter.NotFound)

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

// openBackend conecta el almacén elegido por STORE_DRIVER.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		s := mongodb.NewStore(client, cfg.Mongo.Database)
		if err := mongodb.EnsureIndexes(ctx, s.Database()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &backend{
			repos:    s.Repositories(),
			txRunner: s,
			close:    func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.StoreMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &backend{repos: s.Repositories(), txRunner: s, close: func() {}}, nil

	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Msg("esquema aplicado")
		}
		return &backend{
			repos:    postgres.NewRepositorySet(pool),
			txRunner: postgres.NewTxRunner(pool),
			close:    pool.Close,
		}, nil
	}
}
