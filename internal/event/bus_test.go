package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/dshills/linemark/internal/event/topic"
)

type testPayload struct {
	Value string
}

func TestBus_PublishMatchesPattern(t *testing.T) {
	bus := NewBus()
	var received []string

	_, err := bus.Subscribe("block.*", HandlerFunc(func(ctx context.Context, ev any) error {
		e := ev.(Event[testPayload])
		received = append(received, string(e.Type)+":"+e.Payload.Value)
		return nil
	}))
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	ctx := context.Background()
	_ = bus.Publish(ctx, NewEvent[testPayload]("block.created", testPayload{"one"}, "test"))
	_ = bus.Publish(ctx, NewEvent[testPayload]("annotation.range.cleared", testPayload{"two"}, "test"))
	_ = bus.Publish(ctx, NewEvent[testPayload]("block.removed", testPayload{"three"}, "test"))

	want := []string{"block.created:one", "block.removed:three"}
	if len(received) != len(want) {
		t.Fatalf("received %v, want %v", received, want)
	}
	for i := range want {
		if received[i] != want[i] {
			t.Errorf("received[%d] = %q, want %q", i, received[i], want[i])
		}
	}
}

func TestBus_PriorityOrder(t *testing.T) {
	bus := NewBus()
	var order []string

	record := func(name string) HandlerFunc {
		return func(ctx context.Context, ev any) error {
			order = append(order, name)
			return nil
		}
	}

	_, _ = bus.SubscribeFunc("block.created", record("low"), WithPriority(PriorityLow))
	_, _ = bus.SubscribeFunc("block.created", record("critical"), WithPriority(PriorityCritical))
	_, _ = bus.SubscribeFunc("block.created", record("normal"))

	_ = bus.Publish(context.Background(), NewEvent[testPayload]("block.created", testPayload{}, "test"))

	want := []string{"critical", "normal", "low"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestBus_PanicRecovered(t *testing.T) {
	var panics atomic.Int32
	bus := NewBus(WithPanicHandler(func(event any, sub *Subscription, recovered any) {
		panics.Add(1)
	}))

	ran := false
	_, _ = bus.SubscribeFunc("block.created", func(ctx context.Context, ev any) error {
		panic("boom")
	}, WithPriority(PriorityCritical))
	_, _ = bus.SubscribeFunc("block.created", func(ctx context.Context, ev any) error {
		ran = true
		return nil
	})

	err := bus.Publish(context.Background(), NewEvent[testPayload]("block.created", testPayload{}, "test"))
	if !errors.Is(err, ErrHandlerPanic) {
		t.Errorf("expected ErrHandlerPanic, got %v", err)
	}
	if !ran {
		t.Error("later handlers must still run after a panic")
	}
	if panics.Load() != 1 {
		t.Errorf("panic handler calls = %d, want 1", panics.Load())
	}
	if s := bus.Stats(); s.HandlerPanics != 1 || s.EventsDelivered != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestBus_HandlerErrorWrapped(t *testing.T) {
	bus := NewBus()
	sentinel := errors.New("render failed")
	_, _ = bus.SubscribeFunc("block.created", func(ctx context.Context, ev any) error {
		return sentinel
	})

	err := bus.Publish(context.Background(), NewEvent[testPayload]("block.created", testPayload{}, "test"))
	var he *HandlerError
	if !errors.As(err, &he) {
		t.Fatalf("expected HandlerError, got %v", err)
	}
	if !errors.Is(err, sentinel) || he.Topic != "block.created" {
		t.Errorf("unexpected handler error %+v", he)
	}
}

func TestBus_OnceAndUnsubscribe(t *testing.T) {
	bus := NewBus()
	var count atomic.Int32

	_, _ = bus.SubscribeFunc("block.**", func(ctx context.Context, ev any) error {
		count.Add(1)
		return nil
	}, WithOnce())

	ev := NewEvent[testPayload]("block.created", testPayload{}, "test")
	_ = bus.Publish(context.Background(), ev)
	_ = bus.Publish(context.Background(), ev)
	if count.Load() != 1 {
		t.Errorf("once subscription ran %d times", count.Load())
	}

	sub, _ := bus.SubscribeFunc("block.created", func(ctx context.Context, ev any) error {
		count.Add(1)
		return nil
	})
	if err := bus.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	if err := bus.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe = %v, want ErrSubscriptionNotFound", err)
	}
	_ = bus.Publish(context.Background(), ev)
	if count.Load() != 1 {
		t.Errorf("unsubscribed handler ran, count = %d", count.Load())
	}
	if bus.Stats().Subscriptions != 0 {
		t.Errorf("expected no subscriptions, got %d", bus.Stats().Subscriptions)
	}
}

func TestBus_Filter(t *testing.T) {
	bus := NewBus()
	var got []string
	_, _ = bus.SubscribeFunc("block.created", func(ctx context.Context, ev any) error {
		got = append(got, ev.(Event[testPayload]).Payload.Value)
		return nil
	}, WithFilter(func(ev any) bool {
		return ev.(Event[testPayload]).Payload.Value != "skip"
	}))

	ctx := context.Background()
	_ = bus.Publish(ctx, NewEvent[testPayload]("block.created", testPayload{"keep"}, "test"))
	_ = bus.Publish(ctx, NewEvent[testPayload]("block.created", testPayload{"skip"}, "test"))

	if len(got) != 1 || got[0] != "keep" {
		t.Errorf("filter let through %v", got)
	}
}

func TestBus_InvalidInput(t *testing.T) {
	bus := NewBus()

	if _, err := bus.Subscribe("", HandlerFunc(func(context.Context, any) error { return nil })); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty pattern: got %v", err)
	}
	if _, err := bus.Subscribe("block.created", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler: got %v", err)
	}
	if err := bus.Publish(context.Background(), "not an event"); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("untyped event: got %v", err)
	}
	var empty topic.Topic
	if err := bus.Publish(context.Background(), NewEvent[testPayload](empty, testPayload{}, "test")); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("empty topic: got %v", err)
	}
	if err := bus.Publish(context.Background(), NewEvent[testPayload]("block.*", testPayload{}, "test")); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("pattern topic: got %v", err)
	}
}

func TestAsHandlerFunc(t *testing.T) {
	var got string
	h := AsHandlerFunc(func(ctx context.Context, e Event[testPayload]) error {
		got = e.Payload.Value
		return nil
	})

	_ = h.Handle(context.Background(), NewEvent[testPayload]("x", testPayload{"typed"}, "test"))
	_ = h.Handle(context.Background(), NewEvent[int]("x", 42, "test"))

	if got != "typed" {
		t.Errorf("typed handler got %q", got)
	}
}

func TestNewEventMetadata(t *testing.T) {
	a := NewEvent[testPayload]("block.created", testPayload{}, "side-a")
	b := NewEvent[testPayload]("block.created", testPayload{}, "side-a")

	if a.Metadata.ID == "" || a.Metadata.ID == b.Metadata.ID {
		t.Errorf("event IDs must be unique, got %q and %q", a.Metadata.ID, b.Metadata.ID)
	}
	if a.EventMetadata().Source != "side-a" || a.Metadata.Timestamp.IsZero() {
		t.Errorf("unexpected metadata %+v", a.Metadata)
	}
}
