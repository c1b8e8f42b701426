package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"ghotracker/internal/config"
	"ghotracker/internal/dataprocessing"
	apierrors "ghotracker/internal/errors"
	"ghotracker/internal/infrastructure"
	customMiddleware "ghotracker/internal/middleware"
	"ghotracker/internal/services"
	handlers "ghotracker/internal/transport/http"
	"ghotracker/internal/trends"
	"ghotracker/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Services      *ServiceContainer

	listener net.Listener
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Loader    *dataprocessing.Loader
	Lookup    *trends.Lookup
	Dashboard *services.DashboardService
	Health    *services.HealthService
}

// NewApplication loads the configuration, initializes the process logger and
// builds the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, apierrors.NewConfigError("failed to load configuration", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	return New(cfg, logger)
}

// New builds the application from an explicit configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", contracts.AppName),
		slog.String("version", contracts.Version),
		slog.String("data_path", cfg.DataPath()),
		slog.String("country", cfg.Data.Country))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	businessMetrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       businessMetrics,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()

	return app, nil
}

// initializeServices wires the loader, the search-interest lookup and the services
func (a *Application) initializeServices() error {
	loader := dataprocessing.NewLoader(a.Logger,
		dataprocessing.WithLoadObserver(a.Metrics.RecordDatasetLoad))

	// A nil interface keeps the dashboard from calling a disabled lookup
	var interest services.InterestLookup
	var lookup *trends.Lookup
	if a.Config.Trends.Enabled {
		client, err := trends.NewClient(trends.ConfigFrom(a.Config), a.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize trends client: %w", err)
		}
		lookup, err = trends.NewLookup(client, trends.LookupConfig{
			Country:   a.Config.Data.Country,
			Geo:       a.Config.Data.Geo,
			Timeframe: a.Config.Trends.Timeframe,
			CacheSize: a.Config.Trends.CacheSize,
		}, a.Logger, a.Metrics.RecordInterestLookup)
		if err != nil {
			return fmt.Errorf("failed to initialize search interest lookup: %w", err)
		}
		interest = lookup
	} else {
		a.Logger.Info("Search interest lookup disabled")
	}

	dataPath := a.Config.DataPath()
	dashboard := services.NewDashboardService(loader, interest, services.DashboardConfig{
		DataPath: dataPath,
		Country:  a.Config.Data.Country,
	}, a.Metrics, a.Logger)

	health := services.NewHealthService(dataPath, loader, a.Config.Trends.Enabled, a.Logger)

	a.Services = &ServiceContainer{
		Loader:    loader,
		Lookup:    lookup,
		Dashboard: dashboard,
		Health:    health,
	}
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	// Ordering: RequestID → RealIP → OTel → Logger → Recovery → limits
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}
	r.Use(otelMiddleware.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(errorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	validator := customMiddleware.NewQueryValidator(a.Logger)
	dashboardHandler := handlers.NewDashboardHandler(a.Services.Dashboard, validator, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
		r.Mount("/", dashboardHandler.Routes())
	})

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.Compress(5))
		r.Method(http.MethodGet, "/", handlers.NewDashboardPage(dashboardHandler))
	})

	// Scrapes skip the request timeout
	r.Mount("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP).Routes())

	a.Router = r
	return nil
}

// getCORSConfig allows the configured origins for read-only requests
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	origins := a.Config.Security.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{
			fmt.Sprintf("http://localhost:%d", a.Config.Server.Port),
			fmt.Sprintf("http://127.0.0.1:%d", a.Config.Server.Port),
		}
	}

	a.Logger.Info("CORS configured", slog.Any("allowed_origins", origins))

	return customMiddleware.CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
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

// Addr returns the bound address once Start has returned
func (a *Application) Addr() string {
	if a.listener == nil {
		return a.Server.Addr
	}
	return a.listener.Addr().String()
}

// Start binds the listener, serves in the background and loads the dataset.
// A server failure calls cancel so Run can shut down.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", contracts.AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://%s", a.Addr())))
	return nil
}

// performStartupHealthCheck loads the dataset eagerly. A failure is not fatal:
// the dashboard shows the error until the file is fixed.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	ds, err := a.Services.Loader.Load(ctx, a.Config.DataPath())
	if err != nil {
		return fmt.Errorf("dataset not loaded: %w", err)
	}

	a.Logger.InfoContext(ctx, "Startup health check passed",
		slog.Int("observations", ds.Len()),
		slog.String("dataset_country", ds.Country))
	if ds.Country != "" && ds.Country != a.Config.Data.Country {
		a.Logger.WarnContext(ctx, "Dataset country differs from configured country",
			slog.String("dataset_country", ds.Country),
			slog.String("configured_country", a.Config.Data.Country))
	}
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

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
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Server stopped unexpectedly")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
