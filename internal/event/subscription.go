package event

import (
	"sync/atomic"

	"github.com/dshills/linemark/internal/event/topic"
)

// Priority orders delivery within one Publish call. Lower runs earlier;
// subscribers with equal priority run in subscription order.
type Priority int

const (
	// PriorityCritical is for views that must redraw before anything reacts.
	PriorityCritical Priority = 0
	PriorityNormal   Priority = 200
	// PriorityLow is for sinks such as the event log.
	PriorityLow Priority = 300
)

func (p Priority) String() string {
	if p <= PriorityCritical {
		return "critical"
	}
	if p <= PriorityNormal {
		return "normal"
	}
	return "low"
}

// FilterFunc decides per event whether a subscriber sees it.
type FilterFunc func(event any) bool

// SubscriptionConfig is built from SubscriptionOptions.
type SubscriptionConfig struct {
	Priority Priority
	Filter   FilterFunc
	// Once removes the subscription after its first successful delivery.
	Once bool
}

// DefaultSubscriptionConfig delivers every matching event at PriorityNormal.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{Priority: PriorityNormal}
}

type SubscriptionOption func(*SubscriptionConfig)

func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Priority = p }
}

func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Filter = f }
}

func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Once = true }
}

// Subscription is returned by Subscribe and is the handle for Unsubscribe.
type Subscription struct {
	id      string
	pattern topic.Topic
	handler Handler
	config  SubscriptionConfig
	done    atomic.Bool
}

func (s *Subscription) ID() string                 { return s.id }
func (s *Subscription) Topic() topic.Topic         { return s.pattern }
func (s *Subscription) Config() SubscriptionConfig { return s.config }

// IsActive is false once the subscription was cancelled or removed.
func (s *Subscription) IsActive() bool { return !s.done.Load() }

// Cancel stops delivery without removing the subscription from the bus.
// A cancelled subscription is skipped until Unsubscribe drops it.
func (s *Subscription) Cancel() { s.done.Store(true) }

func (s *Subscription) accepts(event any) bool {
	if s.done.Load() {
		return false
	}
	return s.config.Filter == nil || s.config.Filter(event)
}
