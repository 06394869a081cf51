package projection

import (
	"time"

	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/engine/reconcile"
)

// Local tracks a side's own facts and their consolidated ranges.
// It is not safe for concurrent use.
type Local struct {
	store *annotation.Store
	set   *annotation.Set

	// lines recorded since the last consolidation
	dirty map[int]bool
}

// NewLocal creates an empty local projection stamping facts with now.
func NewLocal(now func() time.Time) *Local {
	return &Local{
		store: annotation.NewStore(annotation.WithClock(now)),
		set:   annotation.NewSet(),
		dirty: make(map[int]bool),
	}
}

// Record stores a fact for one line. The range view is updated by the next
// Consolidate.
func (l *Local) Record(line int, author annotation.Author, kind annotation.ChangeKind, content string) {
	if line < 1 {
		return
	}
	l.store.RecordContent(line, author, kind, content)
	l.dirty[line] = true
}

// Install records a fact for each line of r and places r into the range view
// as one step, replacing whatever covered those lines before.
// contents holds the text of each line in r, in order.
// It returns the removed range portions and the range now covering r.
func (l *Local) Install(r annotation.Range, contents []string) ([]annotation.Range, annotation.Range) {
	if !r.IsValid() {
		return nil, r
	}
	for line := r.Start; line <= r.End; line++ {
		content := ""
		if i := line - r.Start; i < len(contents) {
			content = contents[i]
		}
		l.store.RecordContent(line, r.Author, r.Kind, content)
		delete(l.dirty, line)
	}
	return l.set.Replace(r)
}

// Consolidate merges the lines recorded since the last call into the range
// view and reports which ranges disappeared and which appeared.
func (l *Local) Consolidate() (gone, added []annotation.Range) {
	if len(l.dirty) == 0 {
		return nil, nil
	}
	before := l.set.Ranges()
	for line := range l.dirty {
		f, ok := l.store.Get(line)
		if !ok {
			l.set.ClearLines(line, line)
			continue
		}
		l.set.Replace(annotation.Point(f.Line, f.Author, f.Kind))
	}
	l.dirty = make(map[int]bool)
	return annotation.Diff(before, l.set.Ranges())
}

// Pending returns true if recorded lines wait for consolidation.
func (l *Local) Pending() bool {
	return len(l.dirty) > 0
}

// Shift renumbers facts after lines were inserted or removed at from and
// rebuilds the range view. See annotation.Store.Shift.
func (l *Local) Shift(from, delta int) (gone, added []annotation.Range) {
	if delta == 0 {
		return nil, nil
	}
	l.store.Shift(from, delta)
	return l.rebuild()
}

// AdjustByContent implements Reanchorable.
func (l *Local) AdjustByContent(lines []string) {
	l.store.Remap(func(f annotation.LineFact) int {
		return reconcile.Reanchor(f.Line, f.Content, lines)
	})
	l.rebuild()
}

// RefreshPositions implements Reanchorable. Facts keep their lines even
// past lineCount; only the range view is rebuilt.
func (l *Local) RefreshPositions(lineCount int) {
	l.rebuild()
}

// Reanchor is AdjustByContent followed by RefreshPositions, reporting the
// resulting range changes.
func (l *Local) Reanchor(lines []string) (gone, added []annotation.Range) {
	before := l.set.Ranges()
	l.AdjustByContent(lines)
	l.RefreshPositions(len(lines))
	return annotation.Diff(before, l.set.Ranges())
}

// rebuild recomputes the range view from facts.
func (l *Local) rebuild() (gone, added []annotation.Range) {
	before := l.set.Ranges()
	l.set = annotation.NewSet(annotation.FromFacts(l.store.Drain())...)
	l.dirty = make(map[int]bool)
	return annotation.Diff(before, l.set.Ranges())
}

// Facts returns the recorded facts in line order.
func (l *Local) Facts() []annotation.LineFact {
	return l.store.Drain()
}

// Ranges returns the consolidated ranges.
func (l *Local) Ranges() []annotation.Range {
	return l.set.Ranges()
}

// Len returns the number of recorded facts.
func (l *Local) Len() int {
	return l.store.Len()
}

// Clear drops every fact and returns the ranges that were shown.
func (l *Local) Clear() []annotation.Range {
	l.store.Clear()
	l.dirty = make(map[int]bool)
	return l.set.Clear()
}
