package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/linemark/internal/collab"
	"github.com/dshills/linemark/internal/logging"
)

// DefaultTimeout bounds a single scenario run.
const DefaultTimeout = 10 * time.Second

// Runner executes scenarios against a hub.
//
// gopher-lua's LState is not goroutine-safe; the runner serializes runs.
type Runner struct {
	L *lua.LState

	mu      sync.Mutex
	hub     *collab.Hub
	clock   *VirtualClock
	timeout time.Duration
	out     io.Writer
	log     *slog.Logger
	closed  bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds each run. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithOutput sets where print writes.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRunner creates a sandboxed Lua state bound to hub. clock must be the
// time source the hub's sides were built with.
func NewRunner(hub *collab.Hub, clock *VirtualClock, opts ...Option) *Runner {
	r := &Runner{
		hub:     hub,
		clock:   clock,
		timeout: DefaultTimeout,
		out:     os.Stdout,
		log:     logging.Nop().Logger,
	}
	for _, opt := range opts {
		opt(r)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	installSandbox(L, r.out)
	r.L = L
	r.installAPI()
	return r
}

// Run executes code. name identifies the chunk in errors.
func (r *Runner) Run(ctx context.Context, name, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	fn, err := r.L.LoadString(code)
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}

	start := time.Now()
	err = r.doWithRecovery(func() error {
		r.L.Push(fn)
		return r.L.PCall(0, lua.MultRet, nil)
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("script %s: %w", name, ctxErr)
	}
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}

	r.log.Debug("scenario finished",
		slog.String("script", name),
		slog.Duration("took", time.Since(start)),
		slog.Duration("virtual", r.clock.Elapsed()))
	return nil
}

// RunFile executes the Lua file at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return r.Run(ctx, path, string(code))
}

// doWithRecovery executes a function with panic recovery.
func (r *Runner) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return fn()
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}
