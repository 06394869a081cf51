// Package annotation records per-line authorship facts and consolidates them
// into contiguous ranges.
//
// Two structures live here:
//
//   - [Store]: one [LineFact] per line number, the authoritative record of who
//     last touched a line and whether it was added or edited.
//   - [Set]: a derived view over the facts, holding [Range] values merged so that
//     no two ranges of the same author and change kind overlap or touch.
//
// # Consolidation
//
// Ranges are merged on insert. A candidate is compared against the existing ranges
// that share its author and kind, and the first of these cases wins:
//
//	bottom-extend   existing.End+1 == candidate.Start
//	top-extend      candidate.End+1 == existing.Start
//	overlap         the candidate intersects the existing range
//
// A merge can make two previously separate ranges adjacent (filling line 3 between
// 1-2 and 4-5), so every merge is followed by a full pass over that key until no
// further merge happens. Ranges of different authors or kinds never merge.
//
// Ranges are always reproducible from facts with [FromFacts].
//
// # Thread Safety
//
// Store and Set are not safe for concurrent use. Each editor side owns its own
// instances and serializes access.
package annotation
