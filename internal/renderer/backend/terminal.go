// Package backend draws linemark's side-by-side view on a terminal using tcell.
package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal serializes access to a tcell screen. WaitKey runs on its own
// goroutine while a shutdown may come from a signal handler.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	active bool
}

// NewTerminal opens the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen uses screen as is, e.g. tcell.NewSimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) with(fn func(s tcell.Screen)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.screen)
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	t.active = true
	return nil
}

// Shutdown restores the terminal. It is safe to call more than once and
// unblocks a pending WaitKey.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active {
		t.active = false
		t.screen.Fini()
	}
}

func (t *Terminal) Size() (w, h int) {
	t.with(func(s tcell.Screen) { w, h = s.Size() })
	return w, h
}

// SetCell is a no-op outside the screen.
func (t *Terminal) SetCell(x, y int, r rune, style tcell.Style) {
	t.with(func(s tcell.Screen) { s.SetContent(x, y, r, nil, style) })
}

func (t *Terminal) GetCell(x, y int) (r rune, style tcell.Style) {
	t.with(func(s tcell.Screen) {
		r, _, style, _ = s.GetContent(x, y) //nolint:staticcheck // simulation screens still back GetContent
	})
	return r, style
}

// DrawText writes text from column x and stops before maxX. The result is
// the first column left untouched.
func (t *Terminal) DrawText(x, y, maxX int, text string, style tcell.Style) int {
	t.with(func(s tcell.Screen) {
		for _, r := range text {
			if x >= maxX {
				return
			}
			s.SetContent(x, y, r, nil, style)
			x++
		}
	})
	return x
}

func (t *Terminal) Clear() { t.with(tcell.Screen.Clear) }

func (t *Terminal) Show() { t.with(tcell.Screen.Show) }

// WaitKey returns true on the first key press and false once the screen is
// finalized. Resizes resync the screen and call redraw.
func (t *Terminal) WaitKey(redraw func()) bool {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return false
		}
		if _, ok := ev.(*tcell.EventKey); ok {
			return true
		}
		if _, ok := ev.(*tcell.EventResize); !ok {
			continue
		}
		t.with(tcell.Screen.Sync)
		if redraw != nil {
			redraw()
		}
	}
}
