// Package hotreload watches configuration files and hands their new content
// to registered handlers after a short debounce.
package hotreload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadHandler receives the new content of a watched file.
type ReloadHandler func(ctx context.Context, event ReloadEvent) error

// ReloadEvent describes one observed change.
type ReloadEvent struct {
	Path      string
	Content   []byte
	Version   string
	Timestamp time.Time
}

type Config struct {
	DebounceTime time.Duration
}

func DefaultConfig() *Config {
	return &Config{DebounceTime: 200 * time.Millisecond}
}

// Reloader watches individual files. Editors often replace a file instead of
// writing it, so the parent directory is watched and events are filtered by name.
type Reloader struct {
	config  *Config
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	mutex      sync.Mutex
	handlers   map[string][]ReloadHandler
	versions   map[string]string
	debouncers map[string]*time.Timer
	running    bool
	stopChan   chan struct{}
}

func NewReloader(config *Config, logger *slog.Logger) (*Reloader, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Reloader{
		config:     config,
		logger:     logger,
		watcher:    watcher,
		handlers:   make(map[string][]ReloadHandler),
		versions:   make(map[string]string),
		debouncers: make(map[string]*time.Timer),
		stopChan:   make(chan struct{}),
	}, nil
}

// Watch registers handler for path and starts watching its directory.
func (r *Reloader) Watch(path string, handler ReloadHandler) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.handlers[abs]; !ok {
		if err := r.watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
		}
		if b, err := os.ReadFile(abs); err == nil {
			r.versions[abs] = version(b)
		}
	}
	r.handlers[abs] = append(r.handlers[abs], handler)
	r.logger.Info("hot reload registered", "path", abs)
	return nil
}

// Start runs the event loop until ctx is done or Stop is called.
func (r *Reloader) Start(ctx context.Context) error {
	r.mutex.Lock()
	if r.running {
		r.mutex.Unlock()
		return fmt.Errorf("hot reloader is already running")
	}
	r.running = true
	r.mutex.Unlock()
	go r.watchLoop(ctx)
	return nil
}

func (r *Reloader) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			r.handleFileEvent(ctx, event)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Error("file watcher error", "error", err)
		}
	}
}

func (r *Reloader) handleFileEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	path := filepath.Clean(event.Name)
	r.mutex.Lock()
	_, watched := r.handlers[path]
	r.mutex.Unlock()
	if !watched {
		return
	}
	r.debounceReload(path, func() {
		if err := r.Reload(ctx, path); err != nil {
			r.logger.Error("failed to reload file", "file", path, "error", err)
		}
	})
}

func (r *Reloader) debounceReload(path string, fn func()) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if t, ok := r.debouncers[path]; ok {
		t.Stop()
	}
	r.debouncers[path] = time.AfterFunc(r.config.DebounceTime, fn)
}

// Reload reads path and calls its handlers when the content changed.
func (r *Reloader) Reload(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	v := version(content)
	r.mutex.Lock()
	if r.versions[path] == v {
		r.mutex.Unlock()
		return nil
	}
	r.versions[path] = v
	handlers := append([]ReloadHandler(nil), r.handlers[path]...)
	r.mutex.Unlock()

	event := ReloadEvent{Path: path, Content: content, Version: v, Timestamp: time.Now()}
	var firstErr error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			r.logger.Error("reload handler failed", "path", path, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	r.logger.Info("file reloaded", "path", path, "version", v)
	return firstErr
}

func version(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:8])
}

// Stop ends the event loop and releases the watcher.
func (r *Reloader) Stop() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, t := range r.debouncers {
		t.Stop()
	}
	if r.running {
		close(r.stopChan)
		r.running = false
	}
	return r.watcher.Close()
}
