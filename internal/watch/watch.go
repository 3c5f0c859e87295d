// Package watch reports debounced changes to a single file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
)

// DefaultDebounce coalesces bursts of writes, e.g. from editors that save in
// several steps.
const DefaultDebounce = 200 * time.Millisecond

// Event is one debounced change.
type Event struct {
	Path    string
	Removed bool
	At      time.Time
}

// Watcher watches one file. The parent directory is watched so renames and
// atomic replaces are seen.
type Watcher struct {
	path     string
	debounce time.Duration
	log      logr.Logger

	watcher *fsnotify.Watcher
	events  chan Event
	errors  chan error

	mu      sync.Mutex
	timer   *time.Timer
	pending Event
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before an event is delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for raw fsnotify events.
func WithLogger(lgr logr.Logger) Option {
	return func(w *Watcher) { w.log = lgr }
}

// New starts watching path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		log:      logr.Discard(),
		watcher:  fw,
		events:   make(chan Event, 1),
		errors:   make(chan error, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Events delivers debounced changes. Only the latest change is buffered.
func (w *Watcher) Events() <-chan Event { return w.events }

// Errors delivers watcher errors.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Run processes fsnotify events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				w.stopTimer()
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error(err, "watch error", "path", w.path)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != w.path {
		return
	}
	w.log.V(2).Info("fsnotify event", "name", ev.Name, "op", ev.Op.String())
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = Event{
		Path:    w.path,
		Removed: ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename),
		At:      time.Now(),
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	ev := w.pending
	w.timer = nil
	w.mu.Unlock()

	// Replace an undelivered event rather than block the timer goroutine.
	select {
	case w.events <- ev:
	default:
		select {
		case <-w.events:
		default:
		}
		select {
		case w.events <- ev:
		default:
		}
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.watcher.Close()
}
