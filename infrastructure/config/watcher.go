package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDelay = 500 * time.Millisecond

// Watcher reloads the configuration when its files change and notifies the
// registered callbacks. File watching only runs in development.
type Watcher struct {
	loader    *Loader
	logger    *zap.Logger
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewWatcher creates a watcher around an already loaded configuration
func NewWatcher(loader *Loader, initial *Config, logger *zap.Logger) *Watcher {
	return &Watcher{
		loader: loader,
		logger: logger,
		config: initial,
		stopCh: make(chan struct{}),
	}
}

// Start begins watching the configuration directory in development
func (w *Watcher) Start() error {
	if !w.Config().IsDevelopment() {
		w.logger.Info("configuration hot reloading disabled",
			zap.String("environment", string(w.Config().Environment)),
		)
		return nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(w.loader.BasePath()); err != nil {
		fsWatcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.loader.BasePath(), err)
	}
	w.fsWatcher = fsWatcher

	go w.watchLoop()

	w.logger.Info("configuration hot reloading enabled",
		zap.String("path", w.loader.BasePath()),
	)
	return nil
}

// OnChange registers a callback for configuration changes
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Config returns the configuration in effect
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Stop ends file watching
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Reload loads the configuration again and notifies callbacks if it changed.
// An invalid configuration is logged and the current one kept.
func (w *Watcher) Reload() (bool, error) {
	next, err := w.loader.Load()
	if err != nil {
		w.logger.Error("invalid configuration after reload, keeping current", zap.Error(err))
		return false, err
	}

	w.mu.Lock()
	if sameConfig(w.config, next) {
		w.mu.Unlock()
		w.logger.Debug("configuration unchanged after reload")
		return false, nil
	}
	w.config = next
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for i, cb := range callbacks {
		w.notify(i, cb, next)
	}
	w.logger.Info("configuration reloaded", zap.Int("callbacksNotified", len(callbacks)))
	return true, nil
}

func (w *Watcher) notify(index int, cb func(*Config), cfg *Config) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("configuration callback panicked",
				zap.Int("callbackIndex", index),
				zap.Any("panic", r),
			)
		}
	}()
	cb(cfg)
}

func (w *Watcher) watchLoop() {
	defer w.fsWatcher.Close()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !isConfigFile(event.Name) {
				continue
			}
			w.logger.Debug("configuration file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				_, _ = w.Reload()
			})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))

		case <-w.stopCh:
			return
		}
	}
}

func isConfigFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// sameConfig compares everything except where the values came from
func sameConfig(a, b *Config) bool {
	x, y := *a, *b
	x.LoadedFrom, y.LoadedFrom = nil, nil
	return reflect.DeepEqual(x, y)
}
