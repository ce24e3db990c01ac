package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"

	"ordercli/internal/config"
	"ordercli/internal/dataprocessing"
	"ordercli/internal/engine"
	apperrors "ordercli/internal/errors"
	"ordercli/internal/exporter"
	"ordercli/internal/files"
	"ordercli/internal/infrastructure"
	custommw "ordercli/internal/middleware"
	"ordercli/internal/operations"
	"ordercli/internal/services"
	"ordercli/internal/stats"
	"ordercli/internal/store"
	handlers "ordercli/internal/transport/http"
	"ordercli/internal/transport/sftp"
	ws "ordercli/internal/websocket"
)

// Application is the composition root of the web service
type Application struct {
	Config *config.Config
	Paths  *config.Paths
	Logger *slog.Logger
	Router *chi.Mux
	Server *http.Server

	Store     *store.Store
	Hub       *ws.Hub
	Local     *files.Manager
	Manager   *operations.Manager
	Transport *lazyTransport

	Suppliers *services.SupplierService
	Orders    *services.OrderService
	Stats     *services.StatsService
	Health    *services.HealthService
}

// NewApplication loads configuration and wires every service
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
		slog.String("version", config.AppVersion))

	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	app := &Application{
		Config: cfg,
		Paths:  paths,
		Logger: logger,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() error {
	dbPath := a.Paths.DatabaseFile
	if a.Config.Store.Path != "" {
		dbPath = filepath.Join(a.Paths.ExecutableDir, a.Config.Store.Path)
	}

	st, err := store.Open(dbPath, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to open supplier store: %w", err)
	}
	a.Store = st

	hub := ws.NewHub(a.Logger)
	hub.Start()
	a.Hub = hub

	a.Manager = operations.NewManager(a.Logger, hub)

	// The SFTP server may be down when the process starts; the
	// transport dials on first use instead of at wiring time.
	a.Transport = newLazyTransport(a.Config.SFTP, a.Logger)

	reader := dataprocessing.NewReader(a.Logger)
	pipeline := engine.NewPipeline(a.Logger)
	writer := exporter.NewWriter(a.Paths, a.Logger)
	collector := stats.NewCollector(reader, a.Logger)
	a.Local = files.NewManager(a.Paths, a.Logger)

	a.Suppliers = services.NewSupplierService(st, a.Logger)
	a.Orders = services.NewOrderService(a.Config.SFTP, a.Paths, a.Transport,
		reader, pipeline, writer, collector, a.Local, st, a.Logger)
	a.Stats = services.NewStatsService(collector, st, a.Paths, a.Logger)
	a.Health = services.NewHealthService(config.AppVersion, st, hub, a.Transport, a.Logger)

	return nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)

	// WebSocket endpoint stays outside the wrapping middleware so the
	// hijacked connection is not touched by response writers.
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(a.Hub, w, req)
	})

	r.Group(func(r chi.Router) {
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.Logger))
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
		}))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(custommw.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(custommw.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			r.Mount("/health", handlers.NewHealthHandler(a.Health, a.Logger).Routes())
			r.Mount("/suppliers", handlers.NewSupplierHandler(a.Suppliers, a.Logger).Routes())
			r.Mount("/stats", handlers.NewStatsHandler(a.Stats, a.Logger).Routes())
			r.Mount("/exports", handlers.NewExportsHandler(a.Local, a.Logger).Routes())
		})

		// File and processing operations talk to the remote server and
		// get the longer operation timeout.
		r.Group(func(r chi.Router) {
			r.Use(custommw.Timeout(config.DefaultOperationTimeout, a.Logger))

			orderHandler := handlers.NewOrderHandler(a.Orders, a.Suppliers, a.Manager, a.Logger)
			r.Mount("/files", orderHandler.FileRoutes())
			r.Mount("/operations", orderHandler.OperationRoutes())
		})
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start runs the HTTP server until the context is cancelled or a
// shutdown signal arrives, then shuts down gracefully.
func (a *Application) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-sigCh:
		a.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.Info("context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	return a.Stop(shutdownCtx)
}

// Stop releases every long-lived resource
func (a *Application) Stop(ctx context.Context) error {
	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	a.Hub.Stop()
	a.Transport.Close()

	if err := a.Store.Close(); err != nil {
		a.Logger.Error("store close failed", slog.String("error", err.Error()))
	}

	infrastructure.CloseLogFile()

	a.Logger.Info("application stopped")
	return nil
}

// Run starts the application with a background context
func (a *Application) Run() error {
	return a.Start(context.Background())
}

// transportSession is the slice of the SFTP client the lazy wrapper
// drives. Tests substitute a fake through the dial function.
type transportSession interface {
	ListFiles(remotePath string) ([]sftp.FileInfo, error)
	DownloadFile(remotePath, localPath string) error
	MoveToArchive(remotePath string) error
	Alive() bool
	Close() error
}

// lazyTransport dials the SFTP server on first use and reuses the
// connection, which carries concurrent downloads over one multiplexed
// session. After a failed call the session is probed and dropped only
// when it is dead, so one missing file never tears the connection down
// under its in-flight peers; the next call after a drop redials.
type lazyTransport struct {
	cfg    config.SFTPConfig
	logger *slog.Logger
	dial   func(config.SFTPConfig, *slog.Logger) (transportSession, error)

	mu     sync.Mutex
	client transportSession
}

func newLazyTransport(cfg config.SFTPConfig, logger *slog.Logger) *lazyTransport {
	return &lazyTransport{
		cfg:    cfg,
		logger: logger,
		dial: func(cfg config.SFTPConfig, logger *slog.Logger) (transportSession, error) {
			return sftp.Connect(cfg, logger)
		},
	}
}

func (t *lazyTransport) connect() (transportSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client != nil {
		return t.client, nil
	}

	client, err := t.dial(t.cfg, t.logger)
	if err != nil {
		return nil, apperrors.NewTransportError("sftp connect failed", err)
	}
	t.client = client
	return client, nil
}

func (t *lazyTransport) drop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client != nil {
		t.client.Close()
		t.client = nil
	}
}

// dropIfDead discards the session only when it no longer answers.
// Probing outside the lock keeps in-flight calls on a live session
// unblocked; the identity check below tolerates a concurrent redial.
func (t *lazyTransport) dropIfDead() {
	t.mu.Lock()
	client := t.client
	t.mu.Unlock()

	if client == nil || client.Alive() {
		return
	}

	t.mu.Lock()
	if t.client == client {
		t.client.Close()
		t.client = nil
	}
	t.mu.Unlock()
}

// Close shuts the connection down if one is open
func (t *lazyTransport) Close() {
	t.drop()
}

// Connected reports whether a connection is currently held. Used by the
// health check, which must not trigger a dial.
func (t *lazyTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client != nil
}

func (t *lazyTransport) ListFiles(remotePath string) ([]sftp.FileInfo, error) {
	client, err := t.connect()
	if err != nil {
		return nil, err
	}
	files, err := client.ListFiles(remotePath)
	if err != nil {
		t.dropIfDead()
		return nil, err
	}
	return files, nil
}

func (t *lazyTransport) DownloadFile(remotePath, localPath string) error {
	client, err := t.connect()
	if err != nil {
		return err
	}
	if err := client.DownloadFile(remotePath, localPath); err != nil {
		t.dropIfDead()
		return err
	}
	return nil
}

func (t *lazyTransport) MoveToArchive(remotePath string) error {
	client, err := t.connect()
	if err != nil {
		return err
	}
	if err := client.MoveToArchive(remotePath); err != nil {
		t.dropIfDead()
		return err
	}
	return nil
}
