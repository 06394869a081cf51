package annotation

import (
	"sort"
	"time"
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the time source used to stamp facts.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store holds one LineFact per line number.
// A later fact for a line replaces the earlier one.
type Store struct {
	facts map[int]LineFact
	now   func() time.Time
}

// NewStore creates an empty fact store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		facts: make(map[int]LineFact),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record inserts or replaces the fact for line.
// Lines below 1 are ignored.
func (s *Store) Record(line int, author Author, kind ChangeKind) {
	s.RecordContent(line, author, kind, "")
}

// RecordContent is Record with the line's current text attached.
func (s *Store) RecordContent(line int, author Author, kind ChangeKind, content string) {
	if line < 1 {
		return
	}
	s.facts[line] = LineFact{
		Line:      line,
		Author:    author,
		Kind:      kind,
		Timestamp: s.now(),
		Content:   content,
	}
}

// RecordRange records one fact per line in [start, end].
func (s *Store) RecordRange(start, end int, author Author, kind ChangeKind) {
	if end < start {
		start, end = end, start
	}
	for line := start; line <= end; line++ {
		s.Record(line, author, kind)
	}
}

// Get returns the fact for line, if any.
func (s *Store) Get(line int) (LineFact, bool) {
	f, ok := s.facts[line]
	return f, ok
}

// Remove deletes the fact for line.
func (s *Store) Remove(line int) {
	delete(s.facts, line)
}

// Drain returns all facts in ascending line order.
// The store is left untouched; clearing is a separate step.
func (s *Store) Drain() []LineFact {
	result := make([]LineFact, 0, len(s.facts))
	for _, f := range s.facts {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Line < result[j].Line
	})
	return result
}

// Clear removes all facts.
func (s *Store) Clear() {
	s.facts = make(map[int]LineFact)
}

// Len returns the number of recorded facts.
func (s *Store) Len() int {
	return len(s.facts)
}

// Shift renumbers facts after lines were inserted or removed.
//
// A positive delta means delta lines were inserted at from: facts at or after
// from move down. A negative delta means -delta lines starting at from were
// removed: facts on those lines are dropped and later facts move up.
func (s *Store) Shift(from, delta int) {
	if delta == 0 || from < 1 {
		return
	}
	shifted := make(map[int]LineFact, len(s.facts))
	for line, f := range s.facts {
		switch {
		case line < from:
			shifted[line] = f
		case delta < 0 && line < from-delta:
			// removed line
		default:
			f.Line = line + delta
			shifted[f.Line] = f
		}
	}
	s.facts = shifted
}

// Remap renumbers every fact through fn in one step, so facts can swap
// positions without overwriting each other. A result below 1 drops the fact.
// When two facts land on the same line the more recent one is kept.
func (s *Store) Remap(fn func(f LineFact) int) {
	remapped := make(map[int]LineFact, len(s.facts))
	for _, f := range s.facts {
		to := fn(f)
		if to < 1 {
			continue
		}
		if prev, ok := remapped[to]; ok && prev.Timestamp.After(f.Timestamp) {
			continue
		}
		f.Line = to
		remapped[to] = f
	}
	s.facts = remapped
}
