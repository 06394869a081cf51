package collab

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/logging"
)

// Default side names and authors.
const (
	SideA = "a"
	SideB = "b"

	DefaultAuthorA annotation.Author = "User A"
	DefaultAuthorB annotation.Author = "User B"
)

// HubConfig configures a Hub.
type HubConfig struct {
	// AuthorA and AuthorB name the authors of the two sides.
	AuthorA annotation.Author
	AuthorB annotation.Author

	// Text is the document both sides start from.
	Text string

	Timings  Timings
	Notifier Notifier
	Logger   *slog.Logger

	// Clock overrides time.Now for both sides.
	Clock func() time.Time

	// ManualDeferred leaves deferred work to RunDue and Flush instead of
	// real timers. Set it when Clock is driven by hand.
	ManualDeferred bool
}

// DefaultHubConfig returns a config with the default authors and timings.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		AuthorA: DefaultAuthorA,
		AuthorB: DefaultAuthorB,
		Timings: DefaultTimings(),
	}
}

// Hub owns two connected sides.
type Hub struct {
	a *Side
	b *Side
}

// NewHub creates both sides and connects them.
func NewHub(cfg HubConfig) *Hub {
	if cfg.AuthorA == "" {
		cfg.AuthorA = DefaultAuthorA
	}
	if cfg.AuthorB == "" {
		cfg.AuthorB = DefaultAuthorB
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop().Logger
	}

	opts := []Option{
		WithTimings(cfg.Timings),
		WithNotifier(cfg.Notifier),
		WithLogger(cfg.Logger),
		WithClock(cfg.Clock),
		WithText(cfg.Text),
	}
	if cfg.ManualDeferred {
		opts = append(opts, WithManualDeferred())
	}
	h := &Hub{
		a: NewSide(SideA, cfg.AuthorA, opts...),
		b: NewSide(SideB, cfg.AuthorB, opts...),
	}
	Connect(h.a, h.b)
	return h
}

// A returns the first side.
func (h *Hub) A() *Side {
	return h.a
}

// B returns the second side.
func (h *Hub) B() *Side {
	return h.b
}

// Side returns the side called name.
func (h *Hub) Side(name string) (*Side, error) {
	switch name {
	case h.a.name:
		return h.a, nil
	case h.b.name:
		return h.b, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSide, name)
	}
}

// Sides returns both sides in order.
func (h *Hub) Sides() []*Side {
	return []*Side{h.a, h.b}
}

// Apply updates the delays of both sides.
func (h *Hub) Apply(t Timings) {
	h.a.SetTimings(t)
	h.b.SetTimings(t)
}

// Flush runs the deferred work of both sides.
func (h *Hub) Flush() {
	h.a.Flush()
	h.b.Flush()
}

// RunDue runs the deferred work of both sides that came due by now.
func (h *Hub) RunDue(now time.Time) {
	h.a.RunDue(now)
	h.b.RunDue(now)
}

// Close cancels the deferred work of both sides.
func (h *Hub) Close() {
	h.a.Close()
	h.b.Close()
}
