package app

import (
	"context"
	"log/slog"

	"github.com/dshills/linemark/internal/config"
	"github.com/dshills/linemark/internal/config/watcher"
	"github.com/dshills/linemark/internal/event"
	"github.com/dshills/linemark/internal/event/events"
)

// subscribeLogSink logs every published event after all other handlers ran.
func (app *Application) subscribeLogSink() error {
	log := app.log.WithComponent("events")
	_, err := app.bus.SubscribeFunc("**", func(ctx context.Context, ev any) error {
		env, ok := ev.(event.Envelope)
		if !ok {
			return nil
		}
		t := env.EventTopic()
		log.LogAttrs(ctx, slog.LevelDebug, "event",
			slog.String("area", t.Root()),
			slog.String("topic", t.String()),
			slog.String("source", env.EventMetadata().Source),
			slog.Any("payload", env.EventPayload()))
		return nil
	}, event.WithPriority(event.PriorityLow))
	return err
}

func (app *Application) onHandlerPanic(ev any, sub *event.Subscription, recovered any) {
	attrs := []any{slog.Any("panic", recovered)}
	if sub != nil {
		attrs = append(attrs, slog.String("pattern", sub.Topic().String()))
	}
	if tp, ok := ev.(event.TopicProvider); ok {
		attrs = append(attrs, slog.String("topic", tp.EventTopic().String()))
	}
	app.log.Error("event handler panicked", attrs...)
}

func (app *Application) onConfigChanged(ev watcher.Event) {
	if ev.Gone {
		app.log.Warn("config file removed, keeping current settings", slog.String("path", ev.Path))
		return
	}
	if err := app.Reload(); err != nil {
		app.log.Warn("config reload failed, keeping current settings",
			slog.String("path", ev.Path), slog.Any("error", err))
	}
}

// Reload re-reads the config file and applies the engine timings to both
// sides. Authors and the start text only take effect on restart.
func (app *Application) Reload() error {
	if app.stopped.Load() {
		return ErrShutDown
	}
	if app.opts.ConfigPath == "" {
		return ErrNoConfigPath
	}

	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return &ComponentError{Component: "config", Action: "reload", Err: err}
	}

	app.mu.Lock()
	prev := app.config
	cfg.Authors = prev.Authors
	cfg.View.Text = prev.View.Text
	cfg.View.Enabled = prev.View.Enabled
	cfg.Logging = prev.Logging
	app.config = cfg
	app.mu.Unlock()

	app.hub.Apply(timingsFor(cfg))
	app.log.Info("config reloaded",
		slog.String("path", app.opts.ConfigPath),
		slog.Duration("burst_window", cfg.Engine.BurstWindow.Std()),
		slog.Duration("consolidate_delay", cfg.Engine.ConsolidateDelay.Std()),
		slog.Duration("reanchor_delay", cfg.Engine.ReanchorDelay.Std()))

	return app.bus.Publish(context.Background(), event.NewEvent(
		events.TopicConfigReloaded,
		events.ConfigReloaded{Path: app.opts.ConfigPath},
		"app",
	))
}
