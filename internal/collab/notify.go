package collab

import (
	"context"

	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/engine/block"
	"github.com/dshills/linemark/internal/engine/reservation"
	"github.com/dshills/linemark/internal/event"
	"github.com/dshills/linemark/internal/event/events"
)

// Notifier receives engine notifications. *event.Bus implements it.
type Notifier interface {
	Publish(ctx context.Context, event any) error
}

// outbox collects notifications while a side holds its lock.
type outbox struct {
	source string
	queued []any
}

func (o *outbox) ranges(side string, gone, added []annotation.Range) {
	for _, r := range gone {
		o.queued = append(o.queued, event.NewEvent(events.TopicRangeCleared, events.RangeCleared{
			Side:  side,
			Start: r.Start,
			End:   r.End,
		}, o.source))
	}
	for _, r := range added {
		o.queued = append(o.queued, event.NewEvent(events.TopicRangeAnnotated, events.RangeAnnotated{
			Side:   side,
			Start:  r.Start,
			End:    r.End,
			Author: r.Author,
			Kind:   r.Kind,
		}, o.source))
	}
}

func (o *outbox) conflict(side string, line int, author annotation.Author, c reservation.Conflict) {
	o.queued = append(o.queued, event.NewEvent(events.TopicConflictDetected, events.ConflictDetected{
		Side:              side,
		Line:              line,
		Author:            author,
		ConflictingAuthor: c.Author,
		ReservedAt:        c.ReservedAt,
	}, o.source))
}

func (o *outbox) blockCreated(side string, b block.Block) {
	o.queued = append(o.queued, event.NewEvent(events.TopicBlockCreated, events.BlockCreated{
		Side:  side,
		Block: b.Shift(0),
	}, o.source))
}

func (o *outbox) blockRemoved(side string, id block.ID) {
	o.queued = append(o.queued, event.NewEvent(events.TopicBlockRemoved, events.BlockRemoved{
		Side:    side,
		BlockID: id,
	}, o.source))
}

func (o *outbox) add(ev any) {
	o.queued = append(o.queued, ev)
}
