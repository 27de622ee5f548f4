package main

import (
	"context"
	"fmt"
	"time"

	activityapp "github.com/erp/installments/internal/application/activity"
	catalogapp "github.com/erp/installments/internal/application/catalog"
	ledgerapp "github.com/erp/installments/internal/application/ledger"
	partnerapp "github.com/erp/installments/internal/application/partner"
	"github.com/erp/installments/internal/application/reminder"
	reportapp "github.com/erp/installments/internal/application/report"
	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/auth"
	"github.com/erp/installments/internal/infrastructure/cache"
	"github.com/erp/installments/internal/infrastructure/config"
	"github.com/erp/installments/internal/infrastructure/event"
	"github.com/erp/installments/internal/infrastructure/logger"
	"github.com/erp/installments/internal/infrastructure/notification"
	"github.com/erp/installments/internal/infrastructure/persistence"
	"github.com/erp/installments/internal/infrastructure/printing"
	"github.com/erp/installments/internal/infrastructure/scheduler"
	"github.com/erp/installments/internal/infrastructure/storage"
	"github.com/erp/installments/internal/infrastructure/telemetry"
	"github.com/erp/installments/internal/interfaces/http/handler"
	"github.com/erp/installments/internal/interfaces/http/middleware"
	"github.com/erp/installments/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// application owns every long-lived component of the server
type application struct {
	cfg *config.Config
	log *zap.Logger

	tracer   *telemetry.TracerProvider
	meter    *telemetry.MeterProvider
	profiler *telemetry.Profiler

	db       *persistence.Database
	backends *cache.Backends
	verifier *auth.TokenVerifier
	renderer *printing.ChromedpRenderer

	bus       *event.InMemoryEventBus
	outbox    *event.OutboxProcessor
	reminders *scheduler.PeriodicScheduler

	handlers *handler.Handlers
}

func newApplication(ctx context.Context, cfg *config.Config, telemetryCfg telemetry.Config, log *zap.Logger) (*application, error) {
	app := &application{cfg: cfg, log: log}

	var err error
	app.tracer, err = telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		return nil, fmt.Errorf("tracer provider: %w", err)
	}
	app.meter, err = telemetry.NewMeterProvider(ctx, telemetryCfg, cfg.Telemetry.MetricsInterval, log)
	if err != nil {
		return nil, fmt.Errorf("meter provider: %w", err)
	}
	app.profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Profiling.ApplicationName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("profiler: %w", err)
	}
	if cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles {
		app.tracer.EnableSpanProfiles()
	}

	app.db, err = persistence.NewDatabase(&cfg.Database, log, persistence.DatabaseOptions{
		LogLevel: logger.MapGormLogLevel(cfg.Log.Level),
		Tracing: telemetry.DBTracingConfig{
			Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			DBName:          cfg.Database.DBName,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			WithVariables:   cfg.App.Env != "production",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	log.Info("Database connected successfully")

	app.backends = cache.NewBackends(ctx, cfg.Redis, log)

	app.verifier, err = auth.NewTokenVerifier(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("token verifier: %w", err)
	}

	metrics, err := telemetry.NewLedgerMetrics(app.meter.Meter("ledger"))
	if err != nil {
		return nil, fmt.Errorf("ledger metrics: %w", err)
	}

	// Outbox
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	outboxPublisher := event.NewOutboxPublisher(serializer, event.WithMaxRetries(cfg.Event.MaxRetries))

	// Repositories and scopes
	gdb := app.db.DB
	activityRepo := persistence.NewGormActivityRepository(gdb)
	productRepo := persistence.NewGormProductRepository(gdb)
	installmentRepo := persistence.NewGormInstallmentRepository(gdb)
	customerRepo := persistence.NewGormCustomerRepository(gdb)
	agentRepo := persistence.NewGormAgentRepository(gdb)
	summaryRepo := persistence.NewGormSummaryRepository(gdb)
	ledgerScope := persistence.NewGormLedgerTransactionScope(gdb, outboxPublisher)
	catalogScope := persistence.NewGormCatalogTransactionScope(gdb)

	// Application services
	activityService := activityapp.NewService(activityRepo)
	opts := ledgerapp.Options{
		Balances: app.backends.Balances,
		CacheTTL: cfg.Ledger.CacheTTL,
		Activity: activityService,
		Metrics:  metrics,
	}
	allocator := ledger.NewLumpPaymentAllocator(ledger.AllocationStrategyName(cfg.Ledger.AllocationStrategy))
	receiptService := ledgerapp.NewReceiptService(ledgerScope, productRepo, allocator, opts)
	installmentService := ledgerapp.NewInstallmentService(ledgerScope, opts)
	debtService := ledgerapp.NewDebtService(ledgerScope, opts)
	transactionService := ledgerapp.NewTransactionService(ledgerScope, opts)
	productService := catalogapp.NewProductService(catalogScope, activityService)
	customerService := partnerapp.NewCustomerService(customerRepo)
	agentService := partnerapp.NewAgentService(agentRepo)

	app.renderer = printing.NewChromedpRenderer(printing.ChromedpConfig{
		ExecPath:  cfg.Printing.ChromePath,
		Timeout:   cfg.Printing.Timeout,
		NoSandbox: true,
		Logger:    log,
	})
	store, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	reportService := reportapp.NewService(summaryRepo, app.renderer, store)

	// Event handling
	app.bus = event.NewInMemoryEventBus(log)
	decrement := event.NewIdempotentHandler(
		catalogapp.NewQuantityDecrementHandler(catalogScope, log),
		app.backends.Idempotency,
		log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true}),
	)
	app.bus.Subscribe(decrement, decrement.EventTypes()...)
	if cfg.Event.ProcessorEnabled {
		processorCfg := event.DefaultOutboxProcessorConfig()
		processorCfg.BatchSize = cfg.Event.BatchSize
		processorCfg.PollInterval = cfg.Event.PollInterval
		processorCfg.CleanupEnabled = cfg.Event.CleanupEnabled
		processorCfg.CleanupRetention = cfg.Event.CleanupRetention
		app.outbox = event.NewOutboxProcessor(event.NewGormOutboxRepository(gdb), app.bus, serializer, processorCfg, log)
	}

	if cfg.Reminder.Enabled {
		reminders := reminder.NewService(installmentRepo, customerRepo, notification.NewChannels(cfg.Notify), reminder.Options{
			BatchSize: cfg.Reminder.BatchSize,
			Language:  language.Make(cfg.Printing.Language),
		})
		app.reminders, err = scheduler.New(scheduler.Config{
			Name:     "installment-reminders",
			Interval: cfg.Reminder.Interval,
			Timeout:  cfg.Reminder.Timeout,
		}, func(ctx context.Context) error {
			result, err := reminders.Run(ctx, time.Now())
			if err != nil {
				return err
			}
			logger.L(ctx).Info("Reminder run finished",
				zap.Int("due", result.Due),
				zap.Int("sent", result.Sent),
				zap.Int("failed", result.Failed),
			)
			return nil
		}, log)
		if err != nil {
			return nil, fmt.Errorf("reminder scheduler: %w", err)
		}
	}

	base := handler.NewBaseHandler(cfg.Printing.Language)
	app.handlers = &handler.Handlers{
		Customers:    handler.NewCustomerHandler(base, customerService),
		Agents:       handler.NewAgentHandler(base, agentService, transactionService),
		Products:     handler.NewProductHandler(base, productService),
		Receipts:     handler.NewReceiptHandler(base, receiptService),
		Installments: handler.NewInstallmentHandler(base, installmentService),
		Debts:        handler.NewDebtHandler(base, debtService),
		Transactions: handler.NewTransactionHandler(base, transactionService),
		Reports:      handler.NewReportHandler(base, reportService),
		Activity:     handler.NewActivityHandler(base, activityService),
		Health:       handler.NewHealthHandler(app.db),
	}
	return app, nil
}

// newObjectStorage picks S3 when configured and the in-memory store otherwise
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.ObjectStorage, error) {
	if !cfg.Storage.Enabled {
		log.Info("object storage not configured, report exports are kept in memory")
		return storage.NewMemoryStorage("http://localhost:" + cfg.App.Port + "/exports"), nil
	}
	s3, err := storage.NewS3Storage(ctx, cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3, nil
}

func (a *application) start(ctx context.Context) error {
	if err := a.bus.Start(ctx); err != nil {
		return fmt.Errorf("event bus: %w", err)
	}
	if a.outbox != nil {
		if err := a.outbox.Start(ctx); err != nil {
			return fmt.Errorf("outbox processor: %w", err)
		}
		a.log.Info("Outbox processor started")
	}
	if a.reminders != nil {
		if err := a.reminders.Start(ctx); err != nil {
			return fmt.Errorf("reminder scheduler: %w", err)
		}
		a.log.Info("Reminder scheduler started", zap.Duration("interval", a.cfg.Reminder.Interval))
	}
	return nil
}

// stop releases components in reverse start order
func (a *application) stop(ctx context.Context) {
	if a.reminders != nil {
		if err := a.reminders.Stop(ctx); err != nil {
			a.log.Error("Error stopping reminder scheduler", zap.Error(err))
		}
	}
	if a.outbox != nil {
		if err := a.outbox.Stop(ctx); err != nil {
			a.log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}
	if err := a.bus.Stop(ctx); err != nil {
		a.log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := a.renderer.Close(); err != nil {
		a.log.Error("Error closing PDF renderer", zap.Error(err))
	}
	if err := a.backends.Close(); err != nil {
		a.log.Error("Error closing cache backends", zap.Error(err))
	}
	if err := a.db.Close(); err != nil {
		a.log.Error("Error closing database", zap.Error(err))
	}
	if err := a.profiler.Stop(); err != nil {
		a.log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := a.meter.Shutdown(ctx); err != nil {
		a.log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.log.Error("Error shutting down tracer provider", zap.Error(err))
	}
}

// engine builds the gin engine with the full middleware chain
func (a *application) engine() *gin.Engine {
	cfg := a.cfg
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		a.log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}
	middleware.SetupValidator()

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(a.log),
		logger.Recovery(a.log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	authMw := middleware.JWTAuthMiddleware(middleware.DefaultJWTConfig(a.verifier, cfg.JWT.Required))

	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.ServiceName = cfg.Telemetry.ServiceName
	tracingCfg.Enabled = cfg.Telemetry.Enabled
	profilingCfg := middleware.DefaultProfilingConfig()
	profilingCfg.Enabled = cfg.Profiling.Enabled

	engine.GET("/health", a.handlers.Health.Check)
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(cfg.Swagger, authMw),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	r := router.NewRouter(engine, router.WithMiddleware(
		middleware.TracingWithConfig(tracingCfg),
		authMw,
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		middleware.ProfilingWithConfig(profilingCfg),
		middleware.HTTPMetrics(a.meter.Meter("http"), a.log),
	))
	for _, g := range a.handlers.DomainGroups() {
		r.Register(g)
	}
	r.Setup()

	for _, route := range r.Routes() {
		a.log.Debug("Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}
	return engine
}
