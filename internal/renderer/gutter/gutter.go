// Package gutter computes the annotation gutter drawn left of each line.
//
// A gutter line is laid out as
//
//	[line number][local sign][pending sign][separator]
//
// The local sign marks lines covered by the side's own consolidated ranges
// ('+' added, '~' edited). The pending sign marks lines covered by blocks
// pushed by the other side ('│'). Each sign cell carries the author so the
// backend can color it.
package gutter

import (
	"strconv"
	"sync"

	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/engine/projection"
)

// Config holds gutter configuration.
type Config struct {
	// ShowLineNumbers enables line number display.
	ShowLineNumbers bool

	// MinLineNumberWidth is the minimum width for line numbers.
	MinLineNumberWidth int

	// ShowPending enables the pending block column.
	ShowPending bool
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		ShowLineNumbers:    true,
		MinLineNumberWidth: 3,
		ShowPending:        true,
	}
}

// SignType represents the type of sign to display.
type SignType uint8

const (
	SignNone SignType = iota
	SignAdded
	SignEdited
	SignPending
)

// Sign represents a sign to display in the gutter.
type Sign struct {
	Line   int
	Type   SignType
	Author annotation.Author
}

// CellStyle describes how to style a gutter cell.
type CellStyle uint8

const (
	StyleNormal CellStyle = iota
	StyleDim
	StyleAdded
	StyleEdited
	StylePending
)

// Cell represents a single gutter cell.
type Cell struct {
	Rune   rune
	Style  CellStyle
	Author annotation.Author
}

// Gutter renders gutter cells for one side's view.
type Gutter struct {
	mu sync.RWMutex

	config    Config
	lineCount int
	width     int

	// signs by line
	local   map[int]Sign
	pending map[int]Sign
}

// New creates a new gutter with the given configuration.
func New(config Config) *Gutter {
	g := &Gutter{
		config:  config,
		local:   make(map[int]Sign),
		pending: make(map[int]Sign),
	}
	g.width = calculateWidth(config, 0)
	return g
}

// Width returns the current gutter width.
func (g *Gutter) Width() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.width
}

// SetView replaces the annotations shown for a buffer of lineCount lines.
func (g *Gutter) SetView(view projection.View, lineCount int) {
	local := make(map[int]Sign)
	for _, r := range view.Ranges {
		st := SignAdded
		if r.Kind == annotation.Edited {
			st = SignEdited
		}
		for line := r.Start; line <= r.End; line++ {
			// ranges of different authors may overlap; edited wins
			if prev, ok := local[line]; ok && prev.Type == SignEdited {
				continue
			}
			local[line] = Sign{Line: line, Type: st, Author: r.Author}
		}
	}

	pending := make(map[int]Sign)
	for _, b := range view.Blocks {
		for line := b.Start; line <= b.End; line++ {
			pending[line] = Sign{Line: line, Type: SignPending, Author: b.Author}
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.local = local
	g.pending = pending
	g.lineCount = lineCount
	g.width = calculateWidth(g.config, lineCount)
}

// SignsForLine returns the signs shown on line.
func (g *Gutter) SignsForLine(line int) []Sign {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var signs []Sign
	if s, ok := g.local[line]; ok {
		signs = append(signs, s)
	}
	if s, ok := g.pending[line]; ok && g.config.ShowPending {
		signs = append(signs, s)
	}
	return signs
}

// RenderLine renders the gutter for a single 1-based line.
// Lines past the end of the buffer show '~'.
func (g *Gutter) RenderLine(line int) []Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	cells := make([]Cell, g.width)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Style: StyleNormal}
	}

	col := 0
	visible := line >= 1 && line <= g.lineCount

	if g.config.ShowLineNumbers {
		numWidth := g.lineNumberWidth()
		text := "~"
		if visible {
			text = strconv.Itoa(line)
		}
		// right-align
		col = numWidth - len(text)
		for _, r := range text {
			cells[col] = Cell{Rune: r, Style: StyleDim}
			col++
		}
	}

	if s, ok := g.local[line]; ok && visible {
		r, style := signGlyph(s.Type)
		cells[col] = Cell{Rune: r, Style: style, Author: s.Author}
	}
	col++

	if g.config.ShowPending {
		if s, ok := g.pending[line]; ok {
			r, style := signGlyph(s.Type)
			cells[col] = Cell{Rune: r, Style: style, Author: s.Author}
		}
	}

	return cells
}

// lineNumberWidth returns the width for line numbers.
func (g *Gutter) lineNumberWidth() int {
	return max(len(strconv.Itoa(g.lineCount)), g.config.MinLineNumberWidth)
}

// calculateWidth calculates the total gutter width.
func calculateWidth(config Config, lineCount int) int {
	width := 1 // local sign
	if config.ShowLineNumbers {
		width += max(len(strconv.Itoa(lineCount)), config.MinLineNumberWidth)
	}
	if config.ShowPending {
		width++
	}
	// separator
	return width + 1
}

// signGlyph returns the glyph and style for a sign type.
func signGlyph(st SignType) (rune, CellStyle) {
	switch st {
	case SignAdded:
		return '+', StyleAdded
	case SignEdited:
		return '~', StyleEdited
	case SignPending:
		return '│', StylePending
	default:
		return ' ', StyleNormal
	}
}
