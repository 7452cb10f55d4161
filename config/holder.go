// Package config provides configuration loading and hot reload.
package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/pokkur/layr/adapters/metrics"
)

// Holder provides thread-safe access to configuration with hot reload
// support. Reloads come from the file watcher, from SIGHUP, or from an
// explicit Reload call; a failed reload keeps the old config.
type Holder struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	logger   zerolog.Logger
	metrics  *metrics.Collector
	watcher  *fsnotify.Watcher
	onChange []func(*Config)
	stopCh   chan struct{}
}

// NewHolder loads the initial configuration and wraps it in a holder.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	return &Holder{
		config: cfg,
		path:   absPath,
		logger: logger,
		stopCh: make(chan struct{}),
	}, nil
}

// NewHolderWithMetrics creates a config holder that counts reloads.
func NewHolderWithMetrics(path string, logger zerolog.Logger, m *metrics.Collector) (*Holder, error) {
	h, err := NewHolder(path, logger)
	if err != nil {
		return nil, err
	}
	h.metrics = m
	return h, nil
}

// Get returns the current configuration (thread-safe).
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

// OnChange registers a callback invoked with every successfully
// reloaded config.
func (h *Holder) OnChange(fn func(*Config)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// Reload reloads the configuration from disk. On failure the old config
// stays in place and the error is returned.
func (h *Holder) Reload() error {
	h.logger.Info().Str("path", h.path).Msg("reloading configuration")

	newCfg, err := Load(h.path)
	if err != nil {
		h.logger.Error().Err(err).Msg("config reload failed, keeping old config")
		if h.metrics != nil {
			h.metrics.ConfigReloadErrors.Inc()
		}
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.config
	h.config = newCfg
	listeners := h.onChange
	h.mu.Unlock()

	if changed := diffFields(oldCfg, newCfg); len(changed) > 0 {
		h.logger.Info().Strs("changed", changed).Msg("configuration changed")
	}

	for _, fn := range listeners {
		fn(newCfg)
	}

	if h.metrics != nil {
		h.metrics.ConfigReloads.Inc()
		h.metrics.ConfigLastReload.SetToCurrentTime()
	}

	h.logger.Info().Msg("configuration reloaded successfully")
	return nil
}

// diffFields names the top-level settings that differ between two
// configs, dot-path style.
func diffFields(old, new *Config) []string {
	var changed []string
	if old.Logging.Level != new.Logging.Level {
		changed = append(changed, "logging.level")
	}
	if old.Logging.Format != new.Logging.Format {
		changed = append(changed, "logging.format")
	}
	if old.Registry.Definitions != new.Registry.Definitions {
		changed = append(changed, "registry.definitions")
	}
	if old.Registry.Watch != new.Registry.Watch {
		changed = append(changed, "registry.watch")
	}
	if old.Auth.Enabled != new.Auth.Enabled || old.Auth.TokenHash != new.Auth.TokenHash {
		changed = append(changed, "auth")
	}
	if old.Server != new.Server {
		changed = append(changed, "server")
	}
	return changed
}

// WatchFile starts watching the config file for changes. Changes
// trigger an automatic reload.
func (h *Holder) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directory (more reliable for editors that do atomic saves)
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go h.watchLoop()

	h.logger.Info().Str("path", h.path).Msg("watching config file for changes")
	return nil
}

func (h *Holder) watchLoop() {
	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if !h.relevant(event) {
				continue
			}

			h.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("config file changed")

			if err := h.Reload(); err != nil {
				h.logger.Error().Err(err).Msg("file watch reload failed")
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}

// relevant reports whether a watch event is a write or create of the
// held config file. Sibling files in the directory are ignored, and so
// are chmod and rename events (atomic saves surface as create).
func (h *Holder) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(h.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

// WatchSignals starts listening for SIGHUP to trigger reload.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading config")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()

	h.logger.Info().Msg("listening for SIGHUP to reload config")
}

// Stop stops watching for file changes and signals.
func (h *Holder) Stop() {
	close(h.stopCh)
	if h.watcher != nil {
		h.watcher.Close()
	}
}

// ReloadableFields returns which fields can be changed without restart.
func ReloadableFields() []string {
	return []string{
		"registry.definitions",
		"logging.level",
	}
}

// NonReloadableFields returns which fields require a restart.
func NonReloadableFields() []string {
	return []string{
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"registry.watch",
		"auth.enabled",
		"auth.token_hash",
		"logging.format",
		"metrics.enabled",
		"openapi.enabled",
	}
}
