package annotation

import "sort"

// Set is a consolidated collection of ranges.
// Ranges sharing an author and kind are kept disjoint and non-adjacent.
type Set struct {
	ranges []Range
}

// NewSet creates a set from ranges, consolidating them.
func NewSet(ranges ...Range) *Set {
	s := &Set{}
	for _, r := range ranges {
		s.Insert(r)
	}
	return s
}

// Insert merges candidate into the set and returns the range that now covers it.
// Invalid candidates are ignored and returned unchanged.
func (s *Set) Insert(candidate Range) Range {
	if !candidate.IsValid() {
		return candidate
	}

	merged := false
	for i := range s.ranges {
		r := &s.ranges[i]
		if !r.SameKey(candidate) {
			continue
		}
		switch {
		case r.End+1 == candidate.Start:
			r.End = candidate.End
		case candidate.End+1 == r.Start:
			r.Start = candidate.Start
		case candidate.Overlaps(*r):
			r.Start = min(r.Start, candidate.Start)
			r.End = max(r.End, candidate.End)
		default:
			continue
		}
		merged = true
		break
	}

	if !merged {
		s.ranges = append(s.ranges, candidate)
		s.sort()
		return candidate
	}

	s.mergeKey(candidate.key())
	for _, r := range s.ranges {
		if r.key() == candidate.key() && r.Contains(candidate.Start) {
			return r
		}
	}
	return candidate
}

// mergeKey folds every touching or overlapping pair of ranges for k.
// After sorting by start a single sweep reaches the fixed point.
func (s *Set) mergeKey(k key) {
	var same, others []Range
	for _, r := range s.ranges {
		if r.key() == k {
			same = append(same, r)
		} else {
			others = append(others, r)
		}
	}

	sort.Slice(same, func(i, j int) bool {
		return same[i].Start < same[j].Start
	})

	folded := same[:0]
	for _, r := range same {
		if n := len(folded); n > 0 && r.Start <= folded[n-1].End+1 {
			folded[n-1].End = max(folded[n-1].End, r.End)
			continue
		}
		folded = append(folded, r)
	}

	s.ranges = append(others, folded...)
	s.sort()
}

// ClearLines removes [start, end] from every range, splitting ranges that
// straddle the cleared span. It returns the portions that were removed.
func (s *Set) ClearLines(start, end int) []Range {
	if end < start {
		start, end = end, start
	}

	var kept, removed []Range
	for _, r := range s.ranges {
		if r.End < start || r.Start > end {
			kept = append(kept, r)
			continue
		}
		cut := r
		cut.Start = max(r.Start, start)
		cut.End = min(r.End, end)
		removed = append(removed, cut)

		if r.Start < start {
			left := r
			left.End = start - 1
			kept = append(kept, left)
		}
		if r.End > end {
			right := r
			right.Start = end + 1
			kept = append(kept, right)
		}
	}

	s.ranges = kept
	s.sort()
	return removed
}

// Replace clears [candidate.Start, candidate.End] and inserts candidate as one step.
// Returns the removed portions and the range now covering the candidate.
func (s *Set) Replace(candidate Range) ([]Range, Range) {
	if !candidate.IsValid() {
		return nil, candidate
	}
	removed := s.ClearLines(candidate.Start, candidate.End)
	return removed, s.Insert(candidate)
}

// Clear removes every range and returns what was removed.
func (s *Set) Clear() []Range {
	removed := s.ranges
	s.ranges = nil
	return removed
}

// Ranges returns a copy of the ranges ordered by start line.
func (s *Set) Ranges() []Range {
	result := make([]Range, len(s.ranges))
	copy(result, s.ranges)
	return result
}

// At returns the ranges covering line.
func (s *Set) At(line int) []Range {
	var result []Range
	for _, r := range s.ranges {
		if r.Contains(line) {
			result = append(result, r)
		}
	}
	return result
}

// Len returns the number of ranges.
func (s *Set) Len() int {
	return len(s.ranges)
}

func (s *Set) sort() {
	sortRanges(s.ranges)
}

func sortRanges(ranges []Range) {
	sort.SliceStable(ranges, func(i, j int) bool {
		a, b := ranges[i], ranges[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Author != b.Author {
			return a.Author < b.Author
		}
		return a.Kind < b.Kind
	})
}

// Consolidate returns the minimal equivalent set of ranges.
// Consolidating an already consolidated slice returns an equal slice.
func Consolidate(ranges []Range) []Range {
	return NewSet(ranges...).Ranges()
}

// FromFacts rebuilds ranges from line facts.
func FromFacts(facts []LineFact) []Range {
	s := &Set{}
	for _, f := range facts {
		s.Insert(Point(f.Line, f.Author, f.Kind))
	}
	return s.Ranges()
}

// Diff compares two consolidated range slices and returns the ranges only in
// before (gone) and only in after (added).
func Diff(before, after []Range) (gone, added []Range) {
	seen := make(map[Range]bool, len(before))
	for _, r := range before {
		seen[r] = true
	}
	next := make(map[Range]bool, len(after))
	for _, r := range after {
		next[r] = true
		if !seen[r] {
			added = append(added, r)
		}
	}
	for _, r := range before {
		if !next[r] {
			gone = append(gone, r)
		}
	}
	return gone, added
}
