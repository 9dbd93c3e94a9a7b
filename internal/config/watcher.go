package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	manager  *Manager
	path     string
	debounce time.Duration
	onError  func(error)

	readyOnce sync.Once
	ready     chan struct{}
}

// WatcherConfig holds config watcher configuration.
type WatcherConfig struct {
	FilePath string
	Debounce time.Duration // Default: 100ms
	OnChange func(oldCfg, newCfg *Config)
	// OnError receives reload failures. The previous config stays in
	// effect after one.
	OnError func(error)
}

// NewWatcher loads the file once and returns a watcher serving it.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.FilePath == "" {
		return nil, ErrMissingConfigFile
	}
	if cfg.OnChange == nil {
		return nil, ErrMissingOnChange
	}

	path, err := filepath.Abs(cfg.FilePath)
	if err != nil {
		return nil, err
	}

	initial, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	onError := cfg.OnError
	if onError == nil {
		onError = func(error) {}
	}

	m := NewManager(initial, path)
	m.SetOnUpdate(cfg.OnChange)

	return &Watcher{
		manager:  m,
		path:     path,
		debounce: debounce,
		onError:  onError,
		ready:    make(chan struct{}),
	}, nil
}

// Config returns the config in effect.
func (w *Watcher) Config() *Config {
	return w.manager.Config()
}

// Ready is closed once Run has started watching.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches the file until ctx is done. The directory is watched rather
// than the file so that editors replacing the file by rename are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}
	w.readyOnce.Do(func() { close(w.ready) })

	debounce := time.NewTimer(w.debounce)
	debounce.Stop()
	defer debounce.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = true
			debounce.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.onError(err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			if err := w.manager.Reload(); err != nil {
				w.onError(err)
			}
		}
	}
}
