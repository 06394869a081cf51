// Package watcher reloads configuration when its file changes on disk.
//
// The parent directory is watched instead of the file itself: editors that
// save through a temp file and a rename replace the inode, and a watch on
// the old inode would go silent after the first save.
package watcher

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/linemark/internal/deferred"
	"github.com/dshills/linemark/internal/logging"
)

// ErrWatcherClosed is returned by Close after the first call.
var ErrWatcherClosed = errors.New("watcher: closed")

// DefaultDebounce is how long the file must stay quiet before Handler runs.
const DefaultDebounce = 100 * time.Millisecond

// Event describes the file after a burst of changes settled.
type Event struct {
	Path string
	// Gone is set when the last change removed or renamed the file away.
	Gone bool
	At   time.Time
}

// Handler receives settled changes. It runs on a timer goroutine.
type Handler func(Event)

type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce. Zero calls Handler for every
// change; negative values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watcher follows a single config file.
type Watcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	log      *slog.Logger

	fsw  *fsnotify.Watcher
	task *deferred.Task
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	mu      sync.Mutex
	pending Event
}

// New starts watching path. The file does not need to exist yet, only its
// directory.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		handler:  handler,
		debounce: DefaultDebounce,
		log:      logging.Nop().Logger,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}
	w.fsw = fsw
	w.task = deferred.New(w.debounce, w.deliver)

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Path is the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Close stops the watcher and drops a change that has not settled yet.
func (w *Watcher) Close() error {
	err := ErrWatcherClosed
	w.once.Do(func() {
		close(w.stop)
		err = w.fsw.Close()
		w.wg.Wait()
		w.task.Cancel()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.observe(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) observe(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	gone, relevant := classify(ev.Op)
	if !relevant {
		return
	}
	w.mu.Lock()
	w.pending = Event{Path: w.path, Gone: gone, At: time.Now()}
	w.mu.Unlock()
	w.task.Schedule()
}

func (w *Watcher) deliver() {
	select {
	case <-w.stop:
		return
	default:
	}

	w.mu.Lock()
	ev := w.pending
	w.mu.Unlock()

	w.log.Debug("config file changed", slog.String("path", ev.Path), slog.Bool("gone", ev.Gone))
	if w.handler != nil {
		w.handler(ev)
	}
}

// classify ignores chmod-only events. A create in the same batch as a
// remove means the file was replaced, so it counts as present.
func classify(op fsnotify.Op) (gone, relevant bool) {
	switch {
	case op.Has(fsnotify.Create), op.Has(fsnotify.Write):
		return false, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return true, true
	}
	return false, false
}
