package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/linemark/internal/collab"
)

// writeSummary prints each side's document, local ranges and pending
// blocks in a stable order.
func (app *Application) writeSummary(w io.Writer) error {
	var b strings.Builder
	for _, side := range app.hub.Sides() {
		writeSide(&b, side)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSide(b *strings.Builder, side *collab.Side) {
	lines := side.Lines()
	view := side.View()

	fmt.Fprintf(b, "side %s (%s): %d lines\n", side.Name(), side.Author(), len(lines))
	for i, line := range lines {
		fmt.Fprintf(b, "  %3d  %s\n", i+1, line)
	}
	for _, r := range view.Ranges {
		fmt.Fprintf(b, "  range %d-%d %s %s\n", r.Start, r.End, r.Author, r.Kind)
	}
	for _, blk := range view.Blocks {
		fmt.Fprintf(b, "  block %d-%d %s %s\n", blk.Start, blk.End, blk.Author, blk.Kind)
	}
	if repo := side.Slot().Load(); !repo.Empty() {
		fmt.Fprintf(b, "  pushed %d facts in %d blocks\n", len(repo.Changes), len(repo.PendingBlocks))
	}
}
