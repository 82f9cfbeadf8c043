// Package fswatch notifies on changes to a single file.
package fswatch

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/nzoba/keva-go/internal/telemetry/logger"
)

// Watcher reports changes to one target file. It watches the parent
// directory rather than the file itself so that replace-by-rename
// writes keep being observed, and filters out events for siblings such
// as lock or temp files.
type Watcher struct {
	target string
	base   string

	watcher   *fsnotify.Watcher
	callbacks []func(string)
	mu        sync.RWMutex
	done      chan struct{}
	logger    logger.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(log logger.Logger) Option {
	return func(w *Watcher) {
		w.logger = log
	}
}

// New creates a Watcher for the file at path. The parent directory must
// exist; the file itself may not exist yet.
func New(path string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		target:  path,
		base:    filepath.Base(path),
		watcher: fw,
		done:    make(chan struct{}),
		logger:  logger.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	dir := filepath.Dir(path)
	if err := w.watcher.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	w.logger.Debug("watching for file changes", "dir", dir, "file", w.base)

	return w, nil
}

// Target returns the watched file path.
func (w *Watcher) Target() string {
	return w.target
}

// OnChange registers a callback invoked with the target path whenever
// the target file is written, created, or renamed.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start watches for changes and blocks until Stop is called.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.base {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug("watched file changed", "file", event.Name, "op", event.Op.String())
				w.notify()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher. It must be called at most once.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) notify() {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(w.target)
	}
}
