// Package event provides the notification bus between the annotation engine
// and whatever renders it.
//
// The engine publishes what changed; renderers, loggers and test probes
// subscribe to the topics they care about. Neither side knows about the other.
//
// # Event Topics
//
// Events use hierarchical topics with dot notation (see package topic):
//
//	annotation.range.annotated      - A range was added or extended
//	annotation.range.cleared        - Lines lost their annotation
//	reservation.conflict.detected   - Another author holds the edited line
//	block.created                   - A pushed change block became pending
//	block.removed                   - A pending block was pulled, dismissed or split
//
// # Delivery
//
// Delivery is synchronous: Publish returns after every matching handler ran,
// in priority order. A handler that panics is recovered and counted; the
// remaining handlers still run.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	sub, err := bus.Subscribe("annotation.**", event.HandlerFunc(func(ctx context.Context, ev any) error {
//	    if e, ok := ev.(event.Event[events.RangeAnnotated]); ok {
//	        draw(e.Payload)
//	    }
//	    return nil
//	}))
//
//	bus.Publish(ctx, event.NewEvent(events.TopicRangeAnnotated, payload, "side-a"))
package event
