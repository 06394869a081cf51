// Package reservation tracks which author currently owns each line.
//
// Reservations are advisory. They never block an edit; they only let the
// caller detect that a different author touched the same line.
package reservation

import (
	"sort"
	"time"

	"github.com/dshills/linemark/internal/engine/annotation"
)

// Reservation records the author owning a line.
type Reservation struct {
	Line     int
	Author   annotation.Author
	Reserved time.Time
}

// Conflict reports the result of a conflict check.
type Conflict struct {
	// Conflicting is true when another author holds the line.
	Conflicting bool

	// Line is the checked line.
	Line int

	// Author is the other author, set when Conflicting.
	Author annotation.Author

	// ReservedAt is when the other author reserved the line.
	ReservedAt time.Time
}

// Checker reports conflicts without allowing mutation.
type Checker interface {
	CheckConflict(line int, author annotation.Author) Conflict
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source used to stamp reservations.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// Ledger maps line numbers to their current owner. Last writer wins.
// It is not safe for concurrent use.
type Ledger struct {
	lines map[int]Reservation
	now   func() time.Time
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		lines: make(map[int]Reservation),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reserve assigns line to author, overwriting any prior reservation.
func (l *Ledger) Reserve(line int, author annotation.Author) {
	if line < 1 {
		return
	}
	l.lines[line] = Reservation{Line: line, Author: author, Reserved: l.now()}
}

// CheckConflict reports whether a different author holds line.
func (l *Ledger) CheckConflict(line int, author annotation.Author) Conflict {
	r, ok := l.lines[line]
	if !ok || r.Author == author {
		return Conflict{Line: line}
	}
	return Conflict{
		Conflicting: true,
		Line:        line,
		Author:      r.Author,
		ReservedAt:  r.Reserved,
	}
}

// Get returns the reservation for line, if any.
func (l *Ledger) Get(line int) (Reservation, bool) {
	r, ok := l.lines[line]
	return r, ok
}

// Release drops the reservation for line.
func (l *Ledger) Release(line int) {
	delete(l.lines, line)
}

// Clear drops every reservation.
func (l *Ledger) Clear() {
	l.lines = make(map[int]Reservation)
}

// Len returns the number of reserved lines.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// All returns reservations ordered by line.
func (l *Ledger) All() []Reservation {
	result := make([]Reservation, 0, len(l.lines))
	for _, r := range l.lines {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Line < result[j].Line
	})
	return result
}

// Shift renumbers reservations after lines were inserted (delta > 0) or
// removed (delta < 0) at from. Reservations on removed lines are dropped.
func (l *Ledger) Shift(from, delta int) {
	if delta == 0 || from < 1 {
		return
	}
	shifted := make(map[int]Reservation, len(l.lines))
	for line, r := range l.lines {
		switch {
		case line < from:
			shifted[line] = r
		case delta < 0 && line < from-delta:
		default:
			r.Line = line + delta
			shifted[r.Line] = r
		}
	}
	l.lines = shifted
}
