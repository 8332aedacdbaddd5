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

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/auth"
	appbilling "github.com/gajjarumesh/erp-beta-sub001/internal/application/billing"
	appcatalog "github.com/gajjarumesh/erp-beta-sub001/internal/application/catalog"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/packages"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/subscription"
	infrapdf "github.com/gajjarumesh/erp-beta-sub001/internal/infrastructure/pdf"
	"github.com/gajjarumesh/erp-beta-sub001/internal/infrastructure/postgres"
	"github.com/gajjarumesh/erp-beta-sub001/internal/infrastructure/rediscache"
	httpRouter "github.com/gajjarumesh/erp-beta-sub001/internal/interfaces/http"
	"github.com/gajjarumesh/erp-beta-sub001/pkg/config"
	"github.com/gajjarumesh/erp-beta-sub001/pkg/logger"
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

	// Cache de catálogo: si Redis no está disponible el servicio arranca igual
	// y degrada a lecturas directas de DB.
	var catalogCache appcatalog.Cache
	redisClient, err := rediscache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn().Err(err).Msg("redis no disponible, catálogo sin cache")
	} else {
		catalogCache = redisClient
		defer redisClient.Close()
	}

	userRepo := postgres.NewUserRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	pkgRepo := postgres.NewPackageRepository(pool)
	subRepo := postgres.NewSubscriptionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := appcatalog.NewUseCase(catalogRepo, catalogCache, cfg.Redis.CatalogTTL)
	packageUC := packages.NewUseCase(txRunner, pkgRepo, catalogRepo)
	subscriptionUC := subscription.NewUseCase(txRunner, subRepo, subscription.Config{
		DefaultTrialDays: cfg.Billing.DefaultTrialDays,
		DefaultGraceDays: cfg.Billing.DefaultGraceDays,
	})

	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	receiptUC := appbilling.NewReceiptUseCase(subRepo, pkgRepo, catalogRepo, receiptGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Phase 7 Billing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CatalogUC:      catalogUC,
		PackageUC:      packageUC,
		SubscriptionUC: subscriptionUC,
		ReceiptUC:      receiptUC,
		JWTSecret:      cfg.JWT.Secret,
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
