package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"himalcli/internal/config"
	"himalcli/internal/dataset"
	apierrors "himalcli/internal/errors"
	"himalcli/internal/infrastructure"
	custommw "himalcli/internal/middleware"
	"himalcli/internal/services"
	transporthttp "himalcli/internal/transport/http"
	ws "himalcli/internal/websocket"
)

// Application is the dependency container wiring configuration, the dataset
// cache, services, transport and observability together.
type Application struct {
	Config           *config.Config
	Paths            *config.Paths
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
	Metrics          *infrastructure.DashboardMetrics
	Cache            *dataset.Cache
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	Hub              *ws.Hub

	errorHandler *apierrors.ErrorHandler
}

// NewApplication builds the application from configuration
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.Version))

	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(cfg.Observability, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if otelProviders.Meter != nil {
		metrics, err := infrastructure.CreateDashboardMetrics(otelProviders.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics: %w", err)
		}
		app.Metrics = metrics
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices wires the dataset cache, hub and services
func (a *Application) initializeServices() error {
	basePath := a.Paths.ResolveDatasetDir(a.Config.Dataset.Dir)

	loader := dataset.NewLoader(a.Config.Dataset, a.Logger)
	cache := dataset.NewCache(loader, a.Logger)
	if a.Metrics != nil {
		metrics := a.Metrics
		cache.SetLoadObserver(func(base string, fromCache bool, elapsed time.Duration) {
			ctx := context.Background()
			if fromCache {
				metrics.DatasetCacheHits.Add(ctx, 1)
				return
			}
			metrics.DatasetCacheMisses.Add(ctx, 1)
			metrics.DatasetLoadsTotal.Add(ctx, 1)
			metrics.DatasetLoadDuration.Record(ctx, elapsed.Seconds())
		})
	}
	a.Cache = cache

	hub := ws.NewHub(a.Logger)
	hub.Start()
	a.Hub = hub

	dashboardService := services.NewDashboardService(a.Config.Dataset, basePath, cache, a.Logger)
	dashboardService.SetMetrics(a.Metrics)
	dashboardService.SetReloadNotifier(hub)
	a.DashboardService = dashboardService

	a.HealthService = services.NewHealthService(a.Config.Dataset.Files, basePath, cache)

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.StripSlashes)

	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			ExposedHeaders: []string{"X-Request-ID"},
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	r.Use(custommw.Metrics(a.Metrics))

	dashboardHandler := transporthttp.NewDashboardHandler(
		a.DashboardService, a.Paths.SummaryWorkbook, a.Logger, a.errorHandler)
	datasetHandler := transporthttp.NewDatasetHandler(a.DashboardService, a.Logger, a.errorHandler)
	healthHandler := transporthttp.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(custommw.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(custommw.Compress(5))

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/version", healthHandler.Version)

		r.Mount("/dashboard", dashboardHandler.Routes())
		r.Mount("/dataset", datasetHandler.Routes())
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	// No timeout middleware here: websocket connections are long-lived
	r.Get("/ws", a.handleWebSocket)

	a.Router = r
}

// handleWebSocket upgrades dashboard clients onto the hub
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	a.Logger.InfoContext(r.Context(), "websocket upgrade request",
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("origin", r.Header.Get("Origin")))

	ws.ServeWS(a.Hub, a.Config.WebSocket, a.Logger, w, r)
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

// Start starts the HTTP server and warms the dataset cache
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.Int("port", a.Config.Server.Port),
		slog.String("dataset_dir", a.DashboardService.BasePath()))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	// Warm the cache so the first snapshot request doesn't pay the load.
	// A failed warm-up is not fatal: the dataset may appear later and a
	// reload recovers.
	go func() {
		warmCtx, warmCancel := context.WithTimeout(context.Background(), time.Minute)
		defer warmCancel()
		if _, err := a.Cache.Get(warmCtx, a.DashboardService.BasePath()); err != nil {
			a.Logger.Warn("dataset warm-up failed",
				slog.String("error", err.Error()))
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Hub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry",
				slog.String("error", err.Error()))
		}
	}

	infrastructure.CloseLogFile()

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
