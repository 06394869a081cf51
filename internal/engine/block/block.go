// Package block packages consecutive line facts with their contents into
// change blocks exchanged when one side pushes to the other.
package block

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/dshills/linemark/internal/engine/annotation"
)

// ID uniquely identifies a block.
type ID string

// NewID generates a new block ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// Block is a contiguous range of changed lines with their literal contents.
type Block struct {
	ID     ID
	Start  int
	End    int
	Author annotation.Author
	Kind   annotation.ChangeKind

	// Lines holds the content of each line in [Start, End].
	Lines []string
}

// String returns a human-readable representation of the block.
func (b Block) String() string {
	return fmt.Sprintf("block %s [%d-%d %s/%s]", shortID(b.ID), b.Start, b.End, b.Author, b.Kind)
}

// Len returns the number of lines covered.
func (b Block) Len() int {
	return b.End - b.Start + 1
}

// Contains returns true if line lies within the block.
func (b Block) Contains(line int) bool {
	return line >= b.Start && line <= b.End
}

// Range returns the block's extent as an annotation range.
func (b Block) Range() annotation.Range {
	return annotation.NewRange(b.Start, b.End, b.Author, b.Kind)
}

// Shift returns a copy of the block moved by delta lines.
func (b Block) Shift(delta int) Block {
	b.Start += delta
	b.End += delta
	b.Lines = append([]string(nil), b.Lines...)
	return b
}

// Group folds facts into blocks of consecutive lines.
//
// Facts are sorted by line. A fact on the line right after the current block
// extends it; a gap or a change of author starts a new one. A block mixing
// Added and Edited lines is labeled Edited. Contents are copied from lines,
// which is indexed from line 1; lines past its end contribute empty strings.
func Group(facts []annotation.LineFact, lines []string) []Block {
	if len(facts) == 0 {
		return nil
	}

	sorted := make([]annotation.LineFact, len(facts))
	copy(sorted, facts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Line < sorted[j].Line
	})

	var blocks []Block
	current := newBlock(sorted[0], lines)
	for _, f := range sorted[1:] {
		if f.Line == current.End+1 && f.Author == current.Author {
			current.End = f.Line
			current.Kind = current.Kind.Merge(f.Kind)
			current.Lines = append(current.Lines, lineAt(lines, f.Line))
			continue
		}
		blocks = append(blocks, current)
		current = newBlock(f, lines)
	}
	return append(blocks, current)
}

func newBlock(f annotation.LineFact, lines []string) Block {
	return Block{
		ID:     NewID(),
		Start:  f.Line,
		End:    f.Line,
		Author: f.Author,
		Kind:   f.Kind,
		Lines:  []string{lineAt(lines, f.Line)},
	}
}

func lineAt(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// Split partitions b at line at into [Start, at-1] and [at, End].
// It returns false when either half would be empty or the split would land
// on the block's own boundaries.
func Split(b Block, at int) (Block, Block, bool) {
	if at <= b.Start || at >= b.End {
		return Block{}, Block{}, false
	}

	offset := at - b.Start
	lines := b.Lines
	if len(lines) < b.Len() {
		padded := make([]string, b.Len())
		copy(padded, lines)
		lines = padded
	}

	first := Block{
		ID:     NewID(),
		Start:  b.Start,
		End:    at - 1,
		Author: b.Author,
		Kind:   b.Kind,
		Lines:  append([]string(nil), lines[:offset]...),
	}
	second := Block{
		ID:     NewID(),
		Start:  at,
		End:    b.End,
		Author: b.Author,
		Kind:   b.Kind,
		Lines:  append([]string(nil), lines[offset:b.Len()]...),
	}
	return first, second, true
}

func shortID(id ID) string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}
