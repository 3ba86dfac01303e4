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
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"

	"fundview/internal/config"
	"fundview/internal/dataset"
	apierrors "fundview/internal/errors"
	"fundview/internal/infrastructure"
	customMiddleware "fundview/internal/middleware"
	"fundview/internal/services"
	handlers "fundview/internal/transport/http"
	ws "fundview/internal/websocket"
	"fundview/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Store         *dataset.Store
	WebSocketHub  *ws.Hub // nil when notifications are disabled
	Services      *ServiceContainer

	errorHandler *apierrors.ErrorHandler
	listener     net.Listener
	serveErr     chan error
	stopWatch    context.CancelFunc
	watchDone    sync.WaitGroup
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Fundraising *services.FundraisingService
	Health      *services.HealthService
}

// NewApplication loads the configuration and logger from the environment and
// builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires every component for cfg. Nothing is loaded or served until Start.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("data_file", cfg.Data.File))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		errorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	a.initializeServices()

	if err := a.setupRouter(); err != nil {
		return nil, err
	}

	a.createServer()

	return a, nil
}

// initializeServices builds the data store, the notification hub and the
// services on top of them
func (a *Application) initializeServices() {
	loader := dataset.NewLoader(a.Logger, a.Config.Data.Sheet)
	a.Store = dataset.NewStore(loader, a.Config.DataFilePath(), a.Logger,
		dataset.WithReloadOnChange(a.Config.Data.ReloadOnChange),
		dataset.WithMetrics(a.Metrics),
	)

	var clients services.ClientCounter
	if a.Config.WebSocket.Enabled {
		a.WebSocketHub = ws.NewHub(a.Logger, a.Metrics)
		a.Store.Subscribe(a.WebSocketHub.OnDatasetEvent)
		clients = a.WebSocketHub
	}

	a.Services = &ServiceContainer{
		Fundraising: services.NewFundraisingService(a.Store, a.Metrics, a.Logger),
		Health:      services.NewHealthService(a.Store, clients, a.Logger),
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	// Set before any sub-router is mounted so they inherit them.
	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	// Middleware that does not wrap the ResponseWriter, so the WebSocket
	// upgrade can still hijack the connection.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	if a.WebSocketHub != nil {
		upgrader := ws.NewUpgrader(a.Config.WebSocket, a.Config.Security.AllowedOrigins)
		r.Method(http.MethodGet, "/ws", ws.NewHandler(a.WebSocketHub, upgrader, a.Logger))
	}

	r.Method(http.MethodGet, "/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}

	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	fundraisingHandler := handlers.NewFundraisingHandler(a.Services.Fundraising, a.Logger, a.errorHandler)
	clientLogHandler := handlers.NewClientLogHandler(a.Logger)
	dashboardHandler := handlers.NewDashboardHandler(handlers.DashboardOptions{
		Title:     config.AppName,
		WebSocket: a.WebSocketHub != nil,
	}, a.Logger)

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.errorHandler))
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)

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

		r.Method(http.MethodGet, "/", dashboardHandler)

		r.Route("/api", func(r chi.Router) {
			healthHandler.Register(r)
			r.Post("/client-log", clientLogHandler.Handle)

			r.Group(func(r chi.Router) {
				r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
				fundraisingHandler.Register(r)
			})
		})
	})

	a.Router = r
	return nil
}

// getCORSConfig returns the CORS configuration for the API
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			customMiddleware.RequestIDHeader,
		},
		ExposedHeaders: []string{customMiddleware.RequestIDHeader},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Addr(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Start loads the workbook, starts the background workers and begins
// serving. A workbook that cannot be loaded does not stop the server: the
// dashboard reports the problem until the file is fixed.
func (a *Application) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln

	if a.WebSocketHub != nil {
		a.WebSocketHub.Start()
	}

	if err := a.Store.Load(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Serving without fundraising data",
			slog.String("path", a.Store.Path()),
			slog.String("reason", apierrors.UserMessage(err)))
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	a.stopWatch = stopWatch
	if a.Config.Data.ReloadOnChange && a.Config.Data.PollInterval > 0 {
		a.watchDone.Add(1)
		go func() {
			defer a.watchDone.Done()
			a.Store.Watch(watchCtx, a.Config.Data.PollInterval)
		}()
	}

	a.serveErr = make(chan error, 1)
	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("Server error", slog.String("error", err.Error()))
			a.serveErr <- err
		}
		close(a.serveErr)
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("name", config.AppName),
		slog.String("address", a.Addr()),
		slog.Bool("websocket", a.WebSocketHub != nil),
		slog.Bool("metrics", a.OTelProviders.PrometheusHTTP != nil))

	return nil
}

// Addr returns the address the server listens on, which differs from the
// configured one when port 0 was requested
func (a *Application) Addr() string {
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return a.Server.Addr
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.stopWatch != nil {
		a.stopWatch()
		a.watchDone.Wait()
	}

	if a.WebSocketHub != nil {
		a.WebSocketHub.Stop()
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run serves until SIGINT or SIGTERM, or until the server fails
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Received interrupt signal")
	case serveErr = <-a.serveErr:
	}

	if err := a.Stop(context.Background()); err != nil {
		return errors.Join(serveErr, err)
	}
	return serveErr
}
