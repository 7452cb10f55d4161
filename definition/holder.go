package definition

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/pokkur/layr/core/registry"
)

// Holder provides thread-safe access to a registry built from
// definition documents, with hot rebuild support. The served path may
// be a single file or a directory tree of YAML documents.
type Holder struct {
	mu       sync.RWMutex
	registry *registry.Registry
	path     string
	isDir    bool
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onBuild  []func(*registry.Registry)
	stopCh   chan struct{}
}

// NewHolder parses the definitions at path and builds the initial registry.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat definitions: %w", err)
	}

	reg, err := load(absPath, info.IsDir())
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}

	return &Holder{
		registry: reg,
		path:     absPath,
		isDir:    info.IsDir(),
		logger:   logger,
		stopCh:   make(chan struct{}),
	}, nil
}

func load(path string, isDir bool) (*registry.Registry, error) {
	var defs []Definition
	if isDir {
		parsed, err := ParseDir(path)
		if err != nil {
			return nil, err
		}
		defs = parsed
	} else {
		def, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		defs = []Definition{def}
	}

	if len(defs) == 0 {
		return nil, fmt.Errorf("no definition documents under %s", path)
	}
	return Build(defs...)
}

// Get returns the current registry (thread-safe).
func (h *Holder) Get() *registry.Registry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.registry
}

// Rebuild reparses the definitions and swaps in the rebuilt registry.
// Returns error if parsing or building fails (keeps old registry).
func (h *Holder) Rebuild() error {
	h.logger.Info().Str("path", h.path).Msg("rebuilding registry from definitions")

	newReg, err := load(h.path, h.isDir)
	if err != nil {
		h.logger.Error().Err(err).Msg("registry rebuild failed, keeping old registry")
		return fmt.Errorf("rebuild registry: %w", err)
	}

	h.mu.Lock()
	oldReg := h.registry
	h.registry = newReg
	h.mu.Unlock()

	if len(oldReg.ComponentNames()) != len(newReg.ComponentNames()) {
		h.logger.Info().
			Int("old", len(oldReg.ComponentNames())).
			Int("new", len(newReg.ComponentNames())).
			Msg("component count changed")
	}

	// Notify listeners
	for _, fn := range h.onBuild {
		fn(newReg)
	}

	h.logger.Info().Int("components", len(newReg.ComponentNames())).Msg("registry rebuilt successfully")
	return nil
}

// OnBuild registers a callback to be called with every rebuilt registry.
func (h *Holder) OnBuild(fn func(*registry.Registry)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onBuild = append(h.onBuild, fn)
}

// WatchFiles starts watching the definition files for changes.
// Changes trigger an automatic rebuild.
func (h *Holder) WatchFiles() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directory (more reliable for editors that do atomic saves)
	dir := h.path
	if !h.isDir {
		dir = filepath.Dir(h.path)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	if h.isDir {
		if err := h.watchSubdirs(dir); err != nil {
			watcher.Close()
			return err
		}
	}

	go h.watchLoop()

	h.logger.Info().Str("path", h.path).Msg("watching definition files for changes")
	return nil
}

func (h *Holder) watchSubdirs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := h.watcher.Add(path); err != nil {
			return fmt.Errorf("watch directory %s: %w", path, err)
		}
		if err := h.watchSubdirs(path); err != nil {
			return err
		}
	}
	return nil
}

// Stop stops watching for file changes.
func (h *Holder) Stop() {
	close(h.stopCh)
	if h.watcher != nil {
		h.watcher.Close()
	}
}

func (h *Holder) watchLoop() {
	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			if !h.relevant(event.Name) {
				continue
			}

			// React to write, create or remove (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("definition file changed")

				if err := h.Rebuild(); err != nil {
					h.logger.Error().Err(err).Msg("file watch rebuild failed")
				}
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

// relevant reports whether an event path belongs to the held definitions.
func (h *Holder) relevant(name string) bool {
	if !h.isDir {
		return filepath.Base(name) == filepath.Base(h.path)
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
