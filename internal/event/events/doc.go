// Package events defines strongly-typed event payloads for the linemark event bus.
//
// Each event type has a corresponding topic constant and payload struct:
//
//   - Annotation events: ranges annotated and cleared after consolidation
//   - Reservation events: conflicting line edits between sides
//   - Block events: pending change blocks received, split, or dismissed
//   - Repository events: pushes and pulls through the shared slot
//   - Config events: configuration reloads
//
// # Usage
//
//	evt := event.NewEvent(events.TopicRangeAnnotated,
//	    events.RangeAnnotated{Side: "a", Start: 5, End: 7, Author: "alice"},
//	    "side-a",
//	)
//	_ = bus.Publish(ctx, evt)
//
// Subscribers may use wildcards, e.g. "annotation.**" or "block.*".
package events
