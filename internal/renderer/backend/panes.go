package backend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/engine/projection"
	"github.com/dshills/linemark/internal/renderer/gutter"
)

// Pane is one side's content to draw.
type Pane struct {
	Title string
	Lines []string
	View  projection.View
}

// Palette maps authors to gutter colors.
type Palette struct {
	colors   map[annotation.Author]tcell.Color
	fallback tcell.Color
}

// NewPalette creates an empty palette.
func NewPalette() *Palette {
	return &Palette{
		colors:   make(map[annotation.Author]tcell.Color),
		fallback: tcell.ColorYellow,
	}
}

// Set assigns a color by name ("steelblue", "#ff8800") to author.
// Unknown names fall back to the default color.
func (p *Palette) Set(author annotation.Author, name string) {
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		c = p.fallback
	}
	p.colors[author] = c
}

// Color returns author's color.
func (p *Palette) Color(author annotation.Author) tcell.Color {
	if c, ok := p.colors[author]; ok {
		return c
	}
	return p.fallback
}

// Renderer draws panes side by side.
type Renderer struct {
	term    *Terminal
	palette *Palette
	config  gutter.Config
}

// NewRenderer creates a renderer drawing to term.
func NewRenderer(term *Terminal, palette *Palette, config gutter.Config) *Renderer {
	if palette == nil {
		palette = NewPalette()
	}
	return &Renderer{term: term, palette: palette, config: config}
}

// Draw clears the screen and draws panes in equal-width columns.
func (r *Renderer) Draw(panes []Pane) {
	r.term.Clear()
	if len(panes) == 0 {
		r.term.Show()
		return
	}

	width, height := r.term.Size()
	paneWidth := width / len(panes)
	for i, p := range panes {
		left := i * paneWidth
		r.drawPane(p, left, left+paneWidth, height)
	}
	r.term.Show()
}

func (r *Renderer) drawPane(p Pane, left, right, height int) {
	titleStyle := tcell.StyleDefault.Bold(true).Reverse(true)
	x := r.term.DrawText(left, 0, right, " "+p.Title+" ", titleStyle)
	for ; x < right; x++ {
		r.term.SetCell(x, 0, ' ', titleStyle)
	}

	g := gutter.New(r.config)
	g.SetView(p.View, len(p.Lines))

	for row := 1; row < height; row++ {
		line := row
		x := left
		for _, cell := range g.RenderLine(line) {
			if x >= right {
				break
			}
			r.term.SetCell(x, row, cell.Rune, r.cellStyle(cell))
			x++
		}
		if line <= len(p.Lines) {
			r.term.DrawText(x, row, right-1, p.Lines[line-1], tcell.StyleDefault)
		}
	}
}

func (r *Renderer) cellStyle(c gutter.Cell) tcell.Style {
	switch c.Style {
	case gutter.StyleDim:
		return tcell.StyleDefault.Dim(true)
	case gutter.StyleAdded, gutter.StyleEdited:
		return tcell.StyleDefault.Foreground(r.palette.Color(c.Author)).Bold(true)
	case gutter.StylePending:
		return tcell.StyleDefault.Foreground(r.palette.Color(c.Author))
	default:
		return tcell.StyleDefault
	}
}
