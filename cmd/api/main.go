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
	"github.com/google/uuid"

	appaccess "github.com/jhoicas/Orbita-api/internal/application/access"
	"github.com/jhoicas/Orbita-api/internal/application/analytics"
	"github.com/jhoicas/Orbita-api/internal/application/apikeys"
	"github.com/jhoicas/Orbita-api/internal/application/auth"
	"github.com/jhoicas/Orbita-api/internal/application/billing"
	"github.com/jhoicas/Orbita-api/internal/application/templates"
	"github.com/jhoicas/Orbita-api/internal/application/usecase"
	"github.com/jhoicas/Orbita-api/internal/infrastructure/cache"
	"github.com/jhoicas/Orbita-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Orbita-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Orbita-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Orbita-api/internal/infrastructure/secrets"
	httpRouter "github.com/jhoicas/Orbita-api/internal/interfaces/http"
	"github.com/jhoicas/Orbita-api/pkg/config"
	"github.com/jhoicas/Orbita-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// @title        Orbita API
// @version      1.0
// @description  Multi-tenant workspace API: invoicing, templates, resources and integrations.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "orbita-api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := log.WithContext(context.Background())

	// Dos pools: el principal opera bajo RLS; el de servicio solo para el fallback privilegiado.
	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.APIPool)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection")
	}
	defer pool.Close()

	servicePool, err := postgres.NewPool(ctx, cfg.DB.Service(), postgres.ServicePool)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres service connection")
	}
	defer servicePool.Close()

	box, err := secrets.NewBox(cfg.Secrets.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("secrets box")
	}

	// Caché opcional: sin REDIS_URL o si Redis no responde, el tablero se calcula siempre.
	var resourceCache analytics.ResourceCache
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, resource cache disabled")
		} else {
			defer rdb.Close()
			resourceCache = cache.NewResourceCache(rdb, cfg.Redis.TTL())
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	templateRepo := postgres.NewTemplateRepository(pool)
	resourceRepo := postgres.NewResourceRepository(pool)
	apiKeyRepo := postgres.NewAPIKeyRepository(pool)
	paymentCfgRepo := postgres.NewPaymentConfigRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)

	principals := appaccess.NewService(
		postgres.NewScopedUserReader(pool, ""),
		postgres.NewUserRepository(servicePool),
		projectRepo,
	)

	numbers := billing.NewNumberGenerator(postgres.NewInvoiceSequence(pool), invoiceRepo, billing.NumberGeneratorConfig{
		Attempts:        cfg.Invoice.NumberAttempts,
		InitialInterval: cfg.Invoice.NumberBackoff(),
	})
	invoiceUC := billing.NewInvoiceUseCase(
		invoiceRepo, paymentRepo, orgRepo, activityRepo, numbers,
		postgres.NewTxRunner(pool),
		notifiers(cfg.Notify, log),
		billing.Config{
			DefaultPrefix:          cfg.Invoice.Prefix,
			TransactionalLineItems: cfg.Invoice.TransactionalLineItems,
		},
	)
	defer invoiceUC.Wait()
	invoicePDFUC := billing.NewPDFUseCase(invoiceUC, orgRepo, infrapdf.NewMarotoPDFGenerator())

	resourceUC := analytics.NewResourceUseCase(resourceRepo, resourceCache)
	apiKeyUC := apikeys.NewUseCase(apiKeyRepo, userRepo, box)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs (generado con `swag init -g cmd/api/main.go`)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Orbita API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json not found, /docs disabled")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	moduleSvc := usecase.NewModuleService(orgRepo)
	httpRouter.Router(app, httpRouter.RouterDeps{
		Principals:    principals,
		APIKeyAuth:    apiKeyUC,
		ModuleChecker: moduleSvc,
		Auth:          authUC,
		Users:         usecase.NewUserUseCase(userRepo, resourceUC),
		Organizations: usecase.NewOrganizationUseCase(orgRepo),
		Modules:       moduleSvc,
		Invoices:      invoiceUC,
		InvoicePDF:    invoicePDFUC,
		Templates:     templates.NewUseCase(templateRepo),
		Projects:      principals,
		Resources:     resourceUC,
		APIKeys:       apiKeyUC,
		PaymentConfig: apikeys.NewPaymentConfigUseCase(paymentCfgRepo, box),
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}

// notifiers arma los canales configurados; ninguno es obligatorio.
func notifiers(cfg config.NotifyConfig, log *logger.Logger) []billing.Notifier {
	var out []billing.Notifier
	if cfg.EmailEnabled() {
		out = append(out, notify.NewEmailNotifier(cfg))
	}
	if cfg.SlackWebhookURL != "" {
		out = append(out, notify.NewSlackNotifier(cfg.SlackWebhookURL, nil))
	}
	names := make([]string, 0, len(out))
	for _, n := range out {
		names = append(names, n.Name())
	}
	log.Info().Strs("channels", names).Msg("invoice notifiers")
	return out
}
