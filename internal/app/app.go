package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"ghostpayroll/internal/config"
	apierrors "ghostpayroll/internal/errors"
	"ghostpayroll/internal/exporter"
	"ghostpayroll/internal/infrastructure"
	customMiddleware "ghostpayroll/internal/middleware"
	"ghostpayroll/internal/reasoning"
	"ghostpayroll/internal/security"
	"ghostpayroll/internal/services"
	handlers "ghostpayroll/internal/transport/http"
	"ghostpayroll/internal/websocket"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	ErrorHandler  *apierrors.ErrorHandler
	Hub           *websocket.Hub
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Batches  *services.BatchStore
	Results  *services.ResultStore
	Uploads  *services.UploadService
	Analysis *services.AnalysisService
	Health   *services.HealthService
	Reports  *exporter.ReportExporter
	Reasoner services.Reasoner
	Metrics  *infrastructure.AnalysisMetrics
}

// NewApplication loads configuration from the environment and builds the web application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := infrastructure.InitializeLogger(cfg.Logging)
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("reasoning_provider", cfg.Reasoning.Provider))

	return New(cfg, logger, infrastructure.DefaultOTelConfig(config.AppVersion))
}

// New builds the application from explicit dependencies
func New(cfg *config.Config, logger *slog.Logger, otelCfg *infrastructure.OTelConfig) (*Application, error) {
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	hub := websocket.NewHub(logger)
	container, err := NewServices(context.Background(), cfg, logger, providers, hub)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	hub.Start()

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Services:      container,
		OTelProviders: providers,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
		Hub:           hub,
	}
	app.setupRouter()
	app.createServer()
	return app, nil
}

// NewServices wires the stores, the reasoning adapter and the services. The
// analyze CLI shares it with the web server; it passes a nil publisher.
func NewServices(ctx context.Context, cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders, publisher services.EventPublisher) (*ServiceContainer, error) {
	var (
		metrics *infrastructure.AnalysisMetrics
		err     error
	)
	if providers != nil && providers.Meter != nil {
		m, err := infrastructure.CreateAnalysisMetrics(providers.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create analysis metrics: %w", err)
		}
		metrics = m
	}

	reasoningCfg := cfg.Reasoning
	reasoningCfg.APIKey, err = security.OpenSecret(reasoningCfg.APIKey, cfg.Security.SecretPassphrase)
	if err != nil {
		return nil, apierrors.NewConfigError("failed to open reasoning API key", err)
	}
	reasoner, err := NewReasoner(ctx, reasoningCfg, logger, metrics)
	if err != nil {
		return nil, err
	}

	results, err := services.NewResultStore(cfg.Analysis.ResultHistory)
	if err != nil {
		return nil, err
	}
	batches := services.NewBatchStore(config.RecentUploadsLimit)

	deps := services.AnalysisDeps{
		Batches:  batches,
		Results:  results,
		Reasoner: reasoner,
		Logger:   logger,
		Metrics:  metrics,
		Events:   publisher,
		Analysis: cfg.Analysis,
	}
	if providers != nil {
		deps.Tracer = providers.Tracer
	}
	analysis, err := services.NewAnalysisService(deps)
	if err != nil {
		return nil, err
	}

	return &ServiceContainer{
		Batches:  batches,
		Results:  results,
		Uploads:  services.NewUploadService(batches, logger, metrics).WithEvents(publisher),
		Analysis: analysis,
		Health:   services.NewHealthService(config.AppVersion, reasoner.Provider(), batches, results, logger),
		Reports:  exporter.NewReportExporter(logger),
		Reasoner: reasoner,
		Metrics:  metrics,
	}, nil
}

// NewReasoner builds the reasoning adapter selected by cfg.Provider
func NewReasoner(ctx context.Context, cfg config.ReasoningConfig, logger *slog.Logger, metrics *infrastructure.AnalysisMetrics) (*reasoning.Adapter, error) {
	var gen reasoning.Generator
	switch cfg.Provider {
	case "fake":
		gen = reasoning.NewFakeGenerator("")
	case "gemini", "":
		g, err := reasoning.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, apierrors.NewConfigError("failed to create Gemini client", err)
		}
		gen = g
	default:
		return nil, apierrors.NewConfigError(fmt.Sprintf("unknown reasoning provider %q", cfg.Provider), nil)
	}

	return reasoning.NewAdapter(reasoning.Options{
		Generator: gen,
		Pacer:     reasoning.NewPacer(cfg.MinInterval, nil),
		Logger:    logger,
		Metrics:   metrics,
		Timeout:   cfg.Timeout,
	})
}

// setupRouter configures middleware and routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// RequestID → RealIP → OTel → Logger → Recoverer
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Services.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	// Prometheus scrapes bypass the rate limiter
	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	r.Group(func(r chi.Router) {
		if rl := a.Config.Security.RateLimit; rl.Enabled {
			r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.ErrorHandler).Handler)
		}
		r.Method(http.MethodGet, "/ws", websocket.NewHandler(a.Hub, a.Config.Security.AllowedOrigins, a.Logger))
		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validator := customMiddleware.NewValidator()

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		handlers.NewHealthHandler(a.Services.Health, a.Logger).Routes(r)
		handlers.NewUploadHandler(a.Services.Uploads, a.Services.Batches, validator,
			a.Config.Server.MaxUploadBytes, a.Logger).Routes(r)
		handlers.NewAnalysisHandler(a.Services.Analysis, a.Services.Batches,
			a.Logger, a.ErrorHandler).Routes(r)
		handlers.NewReportHandler(a.Services.Analysis, a.Services.Reports,
			a.Logger, a.ErrorHandler).Routes(r)
	})
}

// getCORSConfig builds the CORS policy from the security settings
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "X-Requested-With"},
		MaxAge:         300,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Serve runs the server until ctx is cancelled or the listener fails, then
// shuts down gracefully
func (a *Application) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Server listening",
			slog.String("address", a.Server.Addr),
			slog.String("reasoning_provider", a.Services.Reasoner.Provider()))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Hub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Serve(ctx)
}
