package collab

import (
	"log/slog"
	"time"

	"github.com/dshills/linemark/internal/engine/burst"
)

// Default delays for the deferred tasks.
const (
	DefaultConsolidateDelay = 50 * time.Millisecond
	DefaultReanchorDelay    = 100 * time.Millisecond
)

// Timings holds the tunable delays of a side.
type Timings struct {
	// BurstWindow is the trailing window of the burst detector.
	BurstWindow time.Duration

	// ConsolidateDelay defers range consolidation after single-line edits.
	ConsolidateDelay time.Duration

	// ReanchorDelay defers re-anchoring after the document changed.
	ReanchorDelay time.Duration
}

// DefaultTimings returns the default delays.
func DefaultTimings() Timings {
	return Timings{
		BurstWindow:      burst.DefaultWindow,
		ConsolidateDelay: DefaultConsolidateDelay,
		ReanchorDelay:    DefaultReanchorDelay,
	}
}

// Option configures a Side.
type Option func(*Side)

// WithTimings sets the side's delays.
func WithTimings(t Timings) Option {
	return func(s *Side) {
		s.timings = t
	}
}

// WithClock sets the time source for facts, reservations and burst detection.
func WithClock(now func() time.Time) Option {
	return func(s *Side) {
		if now != nil {
			s.now = now
		}
	}
}

// WithManualDeferred stops the side from arming real timers for its
// deferred work. The owner drives it with RunDue or Flush, typically from a
// virtual clock.
func WithManualDeferred() Option {
	return func(s *Side) {
		s.manual = true
	}
}

// WithNotifier sets where notifications are published.
func WithNotifier(n Notifier) Option {
	return func(s *Side) {
		s.notifier = n
	}
}

// WithLogger sets the side's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Side) {
		if l != nil {
			s.log = l
		}
	}
}

// WithText sets the initial document.
func WithText(text string) Option {
	return func(s *Side) {
		s.initial = text
	}
}
