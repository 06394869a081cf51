package events

import (
	"time"

	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/event/topic"
)

// TopicConflictDetected is published when a side edits a line the peer
// has reserved.
const TopicConflictDetected topic.Topic = "reservation.conflict.detected"

// ConflictDetected describes a conflicting edit.
type ConflictDetected struct {
	// Side is the side that made the edit.
	Side string

	// Line is the contested line.
	Line int

	// Author is the author of the new edit.
	Author annotation.Author

	// ConflictingAuthor holds the peer's reservation.
	ConflictingAuthor annotation.Author

	// ReservedAt is when the peer reserved the line.
	ReservedAt time.Time
}
