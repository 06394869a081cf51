// Package app wires configuration, logging, the event bus, the two-side
// collaboration hub and the scenario runner into one application.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/linemark/internal/collab"
	"github.com/dshills/linemark/internal/config"
	"github.com/dshills/linemark/internal/config/watcher"
	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/event"
	"github.com/dshills/linemark/internal/logging"
	"github.com/dshills/linemark/internal/renderer/backend"
	"github.com/dshills/linemark/internal/script"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to a TOML or YAML configuration file.
	// Empty uses the built-in defaults.
	ConfigPath string

	// ScriptPath is a Lua scenario to run. Empty runs nothing and
	// only reports the initial state.
	ScriptPath string

	// LogLevel overrides logging.level from the config when set.
	LogLevel string

	// View draws both sides in the terminal after the scenario.
	View bool

	// WatchConfig reloads engine timings when the config file changes.
	WatchConfig bool

	// Output receives script output and the summary. Defaults to stdout.
	Output io.Writer

	// LogOutput overrides logging.output from the config.
	LogOutput io.Writer
}

// Application is the central coordinator for all linemark components.
type Application struct {
	mu sync.RWMutex

	opts   Options
	config *config.Config
	log    *logging.Logger
	out    io.Writer

	bus     *event.Bus
	clock   *script.VirtualClock
	hub     *collab.Hub
	runner  *script.Runner
	watcher *watcher.Watcher
	term    *backend.Terminal

	running  atomic.Bool
	shutdown sync.Once
	stopped  atomic.Bool
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		out:  opts.Output,
	}
	if app.out == nil {
		app.out = os.Stdout
	}

	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg := config.Default()
	if app.opts.ConfigPath != "" {
		loaded, err := config.Load(app.opts.ConfigPath)
		if err != nil {
			return &ComponentError{Component: "config", Err: err}
		}
		cfg = loaded
	}
	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return &ComponentError{Component: "config", Action: "log level", Err: err}
		}
	}
	if app.opts.View {
		cfg.View.Enabled = true
	}
	app.config = cfg

	// 2. Logger
	if app.opts.LogOutput != nil {
		app.log = logging.NewWithWriter(cfg.LogConfig(), app.opts.LogOutput)
	} else {
		l, err := logging.New(cfg.LogConfig())
		if err != nil {
			return &ComponentError{Component: "logger", Err: err}
		}
		app.log = l
	}

	// 3. Event bus and the log sink
	app.bus = event.NewBus(event.WithPanicHandler(app.onHandlerPanic))
	if err := app.subscribeLogSink(); err != nil {
		return &ComponentError{Component: "event bus", Action: "subscribe", Err: err}
	}

	// 4. Hub on a virtual clock
	app.clock = script.NewVirtualClock(time.Now())
	app.hub = collab.NewHub(collab.HubConfig{
		AuthorA:  annotation.Author(cfg.Authors.A),
		AuthorB:  annotation.Author(cfg.Authors.B),
		Text:     cfg.View.Text,
		Timings:  timingsFor(cfg),
		Notifier: app.bus,
		Logger:   app.log.WithComponent("collab").Logger,
		Clock:    app.clock.Now,

		ManualDeferred: true,
	})

	// 5. Scenario runner
	app.runner = script.NewRunner(app.hub, app.clock,
		script.WithOutput(app.out),
		script.WithLogger(app.log.WithComponent("script").Logger))

	// 6. Config watcher
	if app.opts.WatchConfig && app.opts.ConfigPath != "" {
		w, err := watcher.New(app.opts.ConfigPath, app.onConfigChanged,
			watcher.WithLogger(app.log.WithComponent("watcher").Logger))
		if err != nil {
			return &ComponentError{Component: "watcher", Err: err}
		}
		app.watcher = w
	}

	app.log.Debug("application ready",
		slog.String("author_a", cfg.Authors.A),
		slog.String("author_b", cfg.Authors.B),
		slog.Duration("burst_window", cfg.Engine.BurstWindow.Std()))
	return nil
}

// timingsFor converts the engine section into hub timings.
func timingsFor(cfg *config.Config) collab.Timings {
	return collab.Timings{
		BurstWindow:      cfg.Engine.BurstWindow.Std(),
		ConsolidateDelay: cfg.Engine.ConsolidateDelay.Std(),
		ReanchorDelay:    cfg.Engine.ReanchorDelay.Std(),
	}
}

// SetTerminal sets the terminal used for the view.
// Must be called before Run().
func (app *Application) SetTerminal(term *backend.Terminal) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.term = term
	return nil
}

// Run executes the scenario, reports both sides and, if enabled, draws
// them until a key is pressed.
func (app *Application) Run(ctx context.Context) error {
	if app.stopped.Load() {
		return ErrShutDown
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.opts.ScriptPath != "" {
		if err := app.runner.RunFile(ctx, app.opts.ScriptPath); err != nil {
			return &ComponentError{Component: "script", Action: "run", Err: err}
		}
	}

	// Settle anything the scenario left scheduled.
	app.hub.Flush()

	if err := app.writeSummary(app.out); err != nil {
		return err
	}

	if app.Config().View.Enabled {
		return app.runView(ctx)
	}
	return nil
}

// Shutdown releases every component in reverse initialization order.
// Safe to call more than once.
func (app *Application) Shutdown() {
	app.shutdown.Do(func() {
		app.stopped.Store(true)

		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil {
				app.log.Warn("closing config watcher", slog.Any("error", err))
			}
		}
		if app.runner != nil {
			app.runner.Close()
		}
		if app.hub != nil {
			app.hub.Close()
		}
		app.mu.RLock()
		term := app.term
		app.mu.RUnlock()
		if term != nil {
			term.Shutdown()
		}
		if app.bus != nil {
			stats := app.bus.Stats()
			app.log.Debug("event bus stopped",
				slog.Uint64("published", stats.EventsPublished),
				slog.Uint64("delivered", stats.EventsDelivered))
		}
	})
}

// IsRunning returns true while Run is executing.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Hub returns the collaboration hub.
func (app *Application) Hub() *collab.Hub {
	return app.hub
}

// EventBus returns the event bus.
func (app *Application) EventBus() *event.Bus {
	return app.bus
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.log
}
