package events

import (
	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/event/topic"
)

// Annotation event topics.
const (
	// TopicRangeAnnotated is published when a consolidated range appears.
	TopicRangeAnnotated topic.Topic = "annotation.range.annotated"

	// TopicRangeCleared is published when a consolidated range disappears.
	TopicRangeCleared topic.Topic = "annotation.range.cleared"
)

// RangeAnnotated is published for each range added to a side's view.
type RangeAnnotated struct {
	// Side names the side whose view changed.
	Side string

	// Start is the first line of the range, 1-based.
	Start int

	// End is the last line of the range, inclusive.
	End int

	// Author is who made the change.
	Author annotation.Author

	// Kind is Added or Edited.
	Kind annotation.ChangeKind
}

// RangeCleared is published for each range removed from a side's view.
type RangeCleared struct {
	Side  string
	Start int
	End   int
}
