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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	appanalytics "github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/catalog"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/notifications"
	apppos "github.com/jhoicas/pos-api/internal/application/pos"
	"github.com/jhoicas/pos-api/internal/application/sales"
	domainpos "github.com/jhoicas/pos-api/internal/domain/pos"
	"github.com/jhoicas/pos-api/internal/infrastructure/backend"
	"github.com/jhoicas/pos-api/internal/infrastructure/barcode"
	"github.com/jhoicas/pos-api/internal/infrastructure/events"
	"github.com/jhoicas/pos-api/internal/infrastructure/inprocess"
	infrapdf "github.com/jhoicas/pos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-api/internal/interfaces/http"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
	"github.com/jhoicas/pos-api/pkg/metrics"
	"github.com/jhoicas/pos-api/pkg/migrate"
)

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
		Str("pos_backend", cfg.POS.Backend).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := migrate.UpFromPool(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	// Métricas
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	var reg prometheus.Registerer
	if cfg.Metrics.Enabled {
		reg = registry
	}
	posMetrics := metrics.NewPOSMetrics(reg)

	// Bus de notificaciones
	var notificationBus notifications.Bus
	var closers []func() error
	if cfg.Redis.Enabled() {
		client, err := events.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		closers = append(closers, client.Close)
		notificationBus = events.NewRedisBus(client, cfg.Redis.Channel, log.Component("events"))
	} else {
		notificationBus = events.NewMemoryBus()
	}

	// Repositorios
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Casos de uso
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	companyUC := auth.NewCompanyUseCase(companyRepo)
	locationUC := catalog.NewLocationUseCase(locationRepo)
	productUC := catalog.NewProductUseCase(productRepo, notificationBus, log.Component("catalog"))
	customerUC := catalog.NewCustomerUseCase(customerRepo)
	movementUC := inventory.NewRegisterMovementUseCase(txRunner, productRepo, locationRepo, movementRepo, notificationBus, log.Component("inventory"))
	saleUC := sales.NewRegisterSaleUseCase(txRunner, movementUC, productRepo, locationRepo, customerRepo, saleRepo, notificationBus, log.Component("sales"))
	receiptUC := sales.NewReceiptUseCase(saleUC, companyRepo, locationRepo, infrapdf.NewReceiptRenderer())
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)
	feedUC := notifications.NewFeedUseCase(saleRepo, movementRepo, cfg.POS.FeedBufferSize, log.Component("notifications"))

	// Caja: catálogo, sedes y envío de ventas contra el backend configurado
	policy, err := domainpos.ParseLocationChangePolicy(cfg.POS.LocationChangePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de cambio de sede")
	}
	var (
		catalogReader  apppos.CatalogReader
		locationReader apppos.LocationReader
		salesGateway   apppos.SalesGateway
	)
	switch cfg.POS.Backend {
	case config.BackendRemote:
		client, err := backend.NewClient(backend.Config{
			BaseURL: cfg.POS.BackendURL,
			Token:   cfg.POS.BackendToken,
			Timeout: cfg.POS.BackendTimeout,
		}, log.Component("backend"))
		if err != nil {
			log.Fatal().Err(err).Msg("cliente del backend remoto")
		}
		catalogReader, locationReader, salesGateway = client, client, client
	default:
		gw := inprocess.NewGateway(productUC, locationUC, saleUC)
		catalogReader, locationReader, salesGateway = gw, gw, gw
	}
	sessions := apppos.NewSessionRegistry(time.Duration(cfg.POS.SessionIdleMinutes)*time.Minute, posMetrics, log.Component("pos"))
	terminalUC := apppos.NewTerminalUseCase(sessions, catalogReader, locationReader, salesGateway, policy, posMetrics, log.Component("pos"))

	// Procesos en segundo plano
	go sessions.Run(ctx, time.Minute)
	go func() {
		if err := feedUC.Run(ctx, notificationBus); err != nil {
			log.Error().Err(err).Msg("feed de notificaciones detenido")
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "POS API",
		}))
	}

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		gatherer = registry
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		CompanyUC:        companyUC,
		LocationUC:       locationUC,
		ProductUC:        productUC,
		CustomerUC:       customerUC,
		Codes:            barcode.NewGenerator(),
		RegisterMovement: movementUC,
		RegisterSale:     saleUC,
		Receipt:          receiptUC,
		Terminal:         terminalUC,
		DashboardUC:      dashboardUC,
		Feed:             feedUC,
		JWTSecret:        cfg.JWT.Secret,
		ServiceName:      cfg.App.Name,
		Health:           pool.Ping,
		Metrics:          gatherer,
		MetricsPath:      cfg.Metrics.Path,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errs := app.ShutdownWithContext(shutdownCtx)
	for _, closeFn := range closers {
		errs = multierr.Append(errs, closeFn())
	}
	if errs != nil {
		log.Error().Err(errs).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
