package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	appanalytics "github.com/GukMaksim/construction-inventory/internal/application/analytics"
	"github.com/GukMaksim/construction-inventory/internal/application/auth"
	"github.com/GukMaksim/construction-inventory/internal/application/inventory"
	"github.com/GukMaksim/construction-inventory/internal/application/invoicing"
	"github.com/GukMaksim/construction-inventory/internal/application/usecase"
	infrapdf "github.com/GukMaksim/construction-inventory/internal/infrastructure/pdf"
	"github.com/GukMaksim/construction-inventory/internal/infrastructure/postgres"
	infraxlsx "github.com/GukMaksim/construction-inventory/internal/infrastructure/xlsx"
	"github.com/GukMaksim/construction-inventory/internal/infrastructure/xmlexport"
	httpRouter "github.com/GukMaksim/construction-inventory/internal/interfaces/http"
	"github.com/GukMaksim/construction-inventory/pkg/config"
	"github.com/GukMaksim/construction-inventory/pkg/logger"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
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

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		log.Info().Msg("esquema aplicado")
	}

	// Caché de informes: opcional, solo si hay REDIS_ADDR.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer redisClient.Close()
	}
	reportCache := appanalytics.NewCache(redisClient, cfg.Reports.CacheTTL)

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	siteRepo := postgres.NewSiteRepository(pool)
	sectionRepo := postgres.NewSectionRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := inventory.NewLedgerReader(productRepo, movementRepo, sectionRepo, siteRepo)
	reportUC := appanalytics.NewReportUseCase(ledger, siteRepo, sectionRepo, reportCache)
	exportUC := appanalytics.NewExportUseCase(
		reportUC,
		infrapdf.NewMarotoPDFGenerator(),
		infraxlsx.NewExcelGenerator(),
		xmlexport.NewGenerator(),
	)
	invoiceUC := invoicing.NewInvoiceUseCase(
		txRunner, invoiceRepo, supplierRepo, productRepo,
		reportCache, invoicing.ParseTotalPolicy(cfg.Invoice.TotalPolicy),
	)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(cfg.App.IsProduction()),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.ReplaceAll(cfg.HTTP.CORSOrigins, " ", ""),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(httpRouter.AccessLog(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Construction Inventory API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     usecase.NewUserUseCase(userRepo),
		ProductUC:  usecase.NewProductUseCase(productRepo, movementRepo).WithCache(reportCache),
		SupplierUC: usecase.NewSupplierUseCase(supplierRepo, invoiceRepo),
		SiteUC:     usecase.NewSiteUseCase(siteRepo, sectionRepo).WithCache(reportCache),
		SectionUC:  usecase.NewSectionUseCase(sectionRepo, siteRepo).WithCache(reportCache),
		InvoiceUC:  invoiceUC,
		StockUC:    inventory.NewStockUseCase(ledger, productRepo, movementRepo),
		TransferUC: inventory.NewTransferUseCase(txRunner, siteRepo, reportCache),
		ReportUC:   reportUC,
		ExportUC:   exportUC,
		JWTSecret:  cfg.JWT.Secret,
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
