// Package projection is the read side that renderers poll for annotations.
//
// A side's projection has two parts:
//
//   - [Local]: the side's own line facts and the consolidated ranges derived
//     from them.
//   - [Pending]: change blocks pushed by the other side and not yet pulled or
//     dismissed.
//
// Both implement [Reanchorable], so the owner can re-anchor every annotation
// consumer through one interface after its buffer changed.
package projection

import (
	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/engine/block"
)

// Reanchorable is implemented by every annotation consumer that must follow
// its lines when the buffer changes underneath it.
type Reanchorable interface {
	// AdjustByContent moves each annotated line to the first line of lines
	// with equal recorded content. Annotations without a match stay put.
	AdjustByContent(lines []string)

	// RefreshPositions recomputes derived positions for a buffer of
	// lineCount lines. Annotations are never dropped here.
	RefreshPositions(lineCount int)
}

// View is a point-in-time copy of what a side renders.
type View struct {
	Ranges []annotation.Range
	Blocks []block.Block
}

// Snapshot copies the current state of local and pending into a View.
// Either argument may be nil.
func Snapshot(local *Local, pending *Pending) View {
	var v View
	if local != nil {
		v.Ranges = local.Ranges()
	}
	if pending != nil {
		v.Blocks = pending.Blocks()
	}
	return v
}
