package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	affaireapp "github.com/gestion/backend/internal/application/affaire"
	financeapp "github.com/gestion/backend/internal/application/finance"
	identityapp "github.com/gestion/backend/internal/application/identity"
	partnerapp "github.com/gestion/backend/internal/application/partner"
	reportapp "github.com/gestion/backend/internal/application/report"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/config"
	"github.com/gestion/backend/internal/infrastructure/logger"
	"github.com/gestion/backend/internal/infrastructure/persistence"
	"github.com/gestion/backend/internal/infrastructure/telemetry"
	"github.com/gestion/backend/internal/interfaces/http/handler"
	"github.com/gestion/backend/internal/interfaces/http/middleware"
	"github.com/gestion/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Gestion API
//	@version		1.0
//	@description	Clients, affaires, invoices and payments of a small engineering office.
//	@BasePath		/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Gestion backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		Environment:       cfg.App.Env,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", db.Driver))

	// Application services
	clock := shared.SystemClock{}
	repos := persistence.Repositories(db.DB)
	tx := persistence.NewGormTransactionScope(db.DB)

	clientService := partnerapp.NewClientService(repos, tx)
	affaireService := affaireapp.NewAffaireService(repos, tx)
	contactService := affaireapp.NewContactService(repos, tx)
	invoiceService := financeapp.NewInvoiceService(repos, tx, clock)
	paymentService := financeapp.NewPaymentService(repos, tx, clock)
	userService := identityapp.NewUserService(repos, tx)
	dashboardService := reportapp.NewDashboardService(repos, clock)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	// Order matters: the request id must exist before the span and the
	// access log pick it up.
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	router.NewRouter(engine).RegisterAPI(router.Handlers{
		System:    handler.NewSystemHandler(db, clock),
		Client:    handler.NewClientHandler(clientService, affaireService, contactService),
		Affaire:   handler.NewAffaireHandler(affaireService, contactService, invoiceService),
		Contact:   handler.NewContactHandler(contactService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, paymentService),
		Payment:   handler.NewPaymentHandler(paymentService),
		User:      handler.NewUserHandler(userService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
