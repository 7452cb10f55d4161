// Package bootstrap wires all dependencies and starts the registry server.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pokkur/layr/adapters/metrics"
	"github.com/pokkur/layr/config"
	"github.com/pokkur/layr/definition"
	"github.com/pokkur/layr/remote"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	HTTPServer *http.Server
	Metrics    *metrics.Collector
	Service    *remote.Service

	mu           sync.Mutex
	defsPath     string
	watchDefs    bool
	definitions  *definition.Holder
	configHolder *config.Holder
}

// Options provides optional settings for application initialization.
type Options struct {
	// Version is the build version reported by the version endpoint.
	Version string
}

// New creates and initializes the application from a loaded config.
func New(cfg *config.Config) (*App, error) {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions creates and initializes the application with custom options.
func NewWithOptions(cfg *config.Config, opts Options) (*App, error) {
	logger := setupLogger(cfg.Logging)

	logger.Info().Msg("initializing layrd")

	a := &App{
		Logger:    logger,
		defsPath:  cfg.Registry.Definitions,
		watchDefs: cfg.Registry.Watch,
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	// Build the registry from definition documents
	defs, err := definition.NewHolder(cfg.Registry.Definitions, logger)
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	a.definitions = defs

	if a.Metrics != nil {
		a.Service = remote.NewServiceWithMetrics(defs.Get(), logger, a.Metrics)
	} else {
		a.Service = remote.NewService(defs.Get(), logger)
	}
	defs.OnBuild(a.Service.ReplaceRegistry)

	if cfg.Registry.Watch {
		if err := defs.WatchFiles(); err != nil {
			logger.Warn().Err(err).Msg("failed to watch definition files")
		}
	}

	if err := a.initHTTPServer(cfg, opts); err != nil {
		return nil, fmt.Errorf("init http server: %w", err)
	}

	return a, nil
}

// NewWithHotReload creates the application with config file watching.
// Reloadable fields are applied on change; the rest require a restart.
func NewWithHotReload(path string, opts Options) (*App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a, err := NewWithOptions(cfg, opts)
	if err != nil {
		return nil, err
	}

	holder, err := config.NewHolderWithMetrics(path, a.Logger, a.Metrics)
	if err != nil {
		return nil, fmt.Errorf("config holder: %w", err)
	}
	a.configHolder = holder

	holder.OnChange(a.applyConfig)

	if err := holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("failed to watch config file")
	}
	holder.WatchSignals()

	return a, nil
}

func (a *App) initHTTPServer(cfg *config.Config, opts Options) error {
	handler := remote.NewHandler(a.Service, a.Logger)

	routerCfg := remote.RouterConfig{
		Metrics:       a.Metrics,
		EnableSwagger: cfg.OpenAPI.Enabled,
		Version:       opts.Version,
	}
	if cfg.Auth.Enabled {
		routerCfg.TokenHash = []byte(cfg.Auth.TokenHash)
		a.Logger.Info().Msg("bearer token auth enabled")
	}

	router := remote.NewRouter(handler, a.Logger, routerCfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	a.HTTPServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	a.Logger.Info().Str("addr", addr).Msg("http server configured")
	return nil
}

// applyConfig applies the reloadable subset of a freshly loaded config.
func (a *App) applyConfig(cfg *config.Config) {
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if cfg.Registry.Definitions != a.defsPath {
		a.swapDefinitions(cfg.Registry.Definitions)
		return
	}

	// Same path: pick up edited definition files
	if err := a.definitions.Rebuild(); err != nil {
		a.Logger.Error().Err(err).Msg("definitions rebuild failed")
	}
}

// swapDefinitions replaces the definition holder when the configured
// path changes. Caller holds a.mu.
func (a *App) swapDefinitions(path string) {
	defs, err := definition.NewHolder(path, a.Logger)
	if err != nil {
		a.Logger.Error().Err(err).Str("path", path).
			Msg("failed to load definitions from new path, keeping old")
		return
	}

	old := a.definitions
	a.definitions = defs
	a.defsPath = path

	defs.OnBuild(a.Service.ReplaceRegistry)
	a.Service.ReplaceRegistry(defs.Get())

	if a.watchDefs {
		if err := defs.WatchFiles(); err != nil {
			a.Logger.Warn().Err(err).Msg("failed to watch definition files")
		}
	}

	if old != nil {
		old.Stop()
	}

	a.Logger.Info().Str("path", path).Msg("definitions path switched")
}

// Definitions returns the current definition holder.
func (a *App) Definitions() *definition.Holder {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.definitions
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop config watcher
	if a.configHolder != nil {
		a.configHolder.Stop()
	}

	// Stop definition watcher
	a.mu.Lock()
	defs := a.definitions
	a.mu.Unlock()
	if defs != nil {
		defs.Stop()
	}

	// Shutdown HTTP server
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
