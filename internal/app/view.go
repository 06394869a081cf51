package app

import (
	"context"
	"fmt"

	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/renderer/backend"
	"github.com/dshills/linemark/internal/renderer/gutter"
)

// runView draws both sides until a key is pressed, ctx is done or the
// application shuts down.
func (app *Application) runView(ctx context.Context) error {
	app.mu.Lock()
	if app.term == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			app.mu.Unlock()
			return &ComponentError{Component: "terminal", Err: err}
		}
		app.term = term
	}
	term := app.term
	app.mu.Unlock()

	if err := term.Init(); err != nil {
		return &ComponentError{Component: "terminal", Action: "init", Err: err}
	}
	defer term.Shutdown()

	stop := context.AfterFunc(ctx, term.Shutdown)
	defer stop()

	r := app.newRenderer(term)
	redraw := func() { r.Draw(app.panes()) }
	redraw()

	if !term.WaitKey(redraw) {
		return ctx.Err()
	}
	return nil
}

func (app *Application) newRenderer(term *backend.Terminal) *backend.Renderer {
	cfg := app.Config()

	palette := backend.NewPalette()
	palette.Set(annotation.Author(cfg.Authors.A), cfg.Authors.ColorA)
	palette.Set(annotation.Author(cfg.Authors.B), cfg.Authors.ColorB)

	gc := gutter.DefaultConfig()
	gc.ShowPending = cfg.View.ShowPending
	return backend.NewRenderer(term, palette, gc)
}

func (app *Application) panes() []backend.Pane {
	sides := app.hub.Sides()
	panes := make([]backend.Pane, 0, len(sides))
	for _, side := range sides {
		panes = append(panes, backend.Pane{
			Title: fmt.Sprintf("%s: %s", side.Name(), side.Author()),
			Lines: side.Lines(),
			View:  side.View(),
		})
	}
	return panes
}
