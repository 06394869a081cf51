package projection

import (
	"sort"

	"github.com/dshills/linemark/internal/engine/block"
	"github.com/dshills/linemark/internal/engine/reconcile"
)

// Pending holds change blocks received from the other side.
// It is not safe for concurrent use.
type Pending struct {
	entries []pendingEntry
}

// pendingEntry pairs a block with the local line content it is anchored to.
type pendingEntry struct {
	block  block.Block
	anchor string
}

// NewPending creates an empty pending projection.
func NewPending() *Pending {
	return &Pending{}
}

// Add stores b. anchor is the content of the receiving buffer at b.Start and
// is what AdjustByContent looks for when that buffer changes.
func (p *Pending) Add(b block.Block, anchor string) {
	p.entries = append(p.entries, pendingEntry{block: b, anchor: anchor})
	p.sort()
}

// Get returns the block with id.
func (p *Pending) Get(id block.ID) (block.Block, bool) {
	if i := p.index(id); i >= 0 {
		return p.entries[i].block, true
	}
	return block.Block{}, false
}

// Remove deletes the block with id and returns it.
func (p *Pending) Remove(id block.ID) (block.Block, bool) {
	i := p.index(id)
	if i < 0 {
		return block.Block{}, false
	}
	b := p.entries[i].block
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	return b, true
}

// Split replaces the block with id by its two halves around line at.
// secondAnchor anchors the second half. It returns false, leaving the block
// untouched, when the block is unknown or the split is out of range.
func (p *Pending) Split(id block.ID, at int, secondAnchor string) (block.Block, block.Block, bool) {
	i := p.index(id)
	if i < 0 {
		return block.Block{}, block.Block{}, false
	}
	entry := p.entries[i]
	first, second, ok := block.Split(entry.block, at)
	if !ok {
		return block.Block{}, block.Block{}, false
	}
	p.entries[i] = pendingEntry{block: first, anchor: entry.anchor}
	p.entries = append(p.entries, pendingEntry{block: second, anchor: secondAnchor})
	p.sort()
	return first, second, true
}

// Clear removes every block and returns them.
func (p *Pending) Clear() []block.Block {
	removed := p.Blocks()
	p.entries = nil
	return removed
}

// Blocks returns copies of the blocks ordered by start line.
func (p *Pending) Blocks() []block.Block {
	result := make([]block.Block, len(p.entries))
	for i, e := range p.entries {
		result[i] = e.block.Shift(0)
	}
	return result
}

// Len returns the number of pending blocks.
func (p *Pending) Len() int {
	return len(p.entries)
}

// AdjustByContent implements Reanchorable. Each block keeps its length and
// moves so that it starts at its anchor line.
func (p *Pending) AdjustByContent(lines []string) {
	for i := range p.entries {
		e := &p.entries[i]
		to := reconcile.Reanchor(e.block.Start, e.anchor, lines)
		e.block = e.block.Shift(to - e.block.Start)
	}
	p.sort()
}

// RefreshPositions implements Reanchorable. Blocks keep their length but
// never start more than one line past the end of the buffer.
func (p *Pending) RefreshPositions(lineCount int) {
	limit := max(lineCount+1, 1)
	for i := range p.entries {
		e := &p.entries[i]
		if e.block.Start > limit {
			e.block = e.block.Shift(limit - e.block.Start)
		}
	}
	p.sort()
}

func (p *Pending) index(id block.ID) int {
	for i, e := range p.entries {
		if e.block.ID == id {
			return i
		}
	}
	return -1
}

func (p *Pending) sort() {
	sort.SliceStable(p.entries, func(i, j int) bool {
		return p.entries[i].block.Start < p.entries[j].block.Start
	})
}
