// Package engine groups the line annotation engine used by each side of a
// linemark session.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - annotation: line facts, ranges and the per-side fact store
//   - burst: detects multi-line edits from single-line notifications
//   - reservation: per-line ownership and cross-side conflict checks
//   - block: pending blocks grouped from pushed facts
//   - reconcile: merges a pulled document into the local one by position
//   - projection: the local and pending layers a side renders
//
// # Thread Safety
//
// The sub-packages are not safe for concurrent use on their own. The collab
// package serializes access per side and only crosses sides through the
// reservation ledger and the repository slot, which carry their own locks.
package engine
