package annotation

import (
	"fmt"
	"time"
)

// Author identifies the user that produced a change.
type Author string

// String returns the author id.
func (a Author) String() string {
	return string(a)
}

// ChangeKind categorizes a line change.
type ChangeKind uint8

const (
	// Added marks a line that did not exist before.
	Added ChangeKind = iota

	// Edited marks an existing line whose content was modified.
	Edited
)

// String returns a human-readable representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Edited:
		return "edited"
	default:
		return "unknown"
	}
}

// ParseChangeKind parses "added" or "edited".
func ParseChangeKind(s string) (ChangeKind, bool) {
	switch s {
	case "added", "Added", "add":
		return Added, true
	case "edited", "Edited", "edit":
		return Edited, true
	default:
		return Added, false
	}
}

// Merge returns the kind of a run that contains both k and other.
// A mixed run degrades to Edited.
func (k ChangeKind) Merge(other ChangeKind) ChangeKind {
	if k == other {
		return k
	}
	return Edited
}

// LineFact is the most recent authorship record for one line.
type LineFact struct {
	// Line is the 1-based line number.
	Line int

	// Author is who last touched the line.
	Author Author

	// Kind is whether the line was added or edited.
	Kind ChangeKind

	// Timestamp is when the fact was recorded.
	Timestamp time.Time

	// Content is the line's text when the fact was recorded. It is used to
	// find the line again after the buffer changed underneath it.
	Content string
}

// String returns a human-readable representation of the fact.
func (f LineFact) String() string {
	return fmt.Sprintf("%d:%s/%s", f.Line, f.Author, f.Kind)
}

// Range is a contiguous run of lines sharing an author and change kind.
// Start and End are 1-based and inclusive.
type Range struct {
	Start  int
	End    int
	Author Author
	Kind   ChangeKind
}

// NewRange creates a range, swapping the bounds if they are reversed.
func NewRange(start, end int, author Author, kind ChangeKind) Range {
	if end < start {
		start, end = end, start
	}
	return Range{Start: start, End: end, Author: author, Kind: kind}
}

// Point creates a single-line range.
func Point(line int, author Author, kind ChangeKind) Range {
	return Range{Start: line, End: line, Author: author, Kind: kind}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d-%d %s/%s]", r.Start, r.End, r.Author, r.Kind)
}

// Len returns the number of lines covered.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// IsValid returns true if the range starts at line 1 or later and End >= Start.
func (r Range) IsValid() bool {
	return r.Start >= 1 && r.End >= r.Start
}

// Contains returns true if line lies within the range.
func (r Range) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// Overlaps returns true if the two ranges share at least one line.
func (r Range) Overlaps(other Range) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// SameKey returns true if both ranges belong to the same author and kind.
func (r Range) SameKey(other Range) bool {
	return r.Author == other.Author && r.Kind == other.Kind
}

// key groups ranges that are allowed to merge.
type key struct {
	author Author
	kind   ChangeKind
}

func (r Range) key() key {
	return key{author: r.Author, kind: r.Kind}
}
