// Package burst recognizes multi-line insertions that arrive as a stream of
// single-line change events.
//
// Editors report one changed line at a time, so a paste of five lines looks like
// five separate edits. The Detector keeps the events seen within a short trailing
// window and reports a range once consecutive line numbers accumulate in it.
// The window is time based: unrelated edits separated by idle time are never
// fused into a range.
package burst

import (
	"sort"
	"time"

	"github.com/dshills/linemark/internal/engine/annotation"
)

// DefaultWindow is the default trailing window for correlating events.
const DefaultWindow = 500 * time.Millisecond

// Event is one observed single-line change.
type Event struct {
	Line    int
	Content string
	Kind    annotation.ChangeKind
	Time    time.Time
}

// Result is the outcome of observing an event.
type Result struct {
	// IsRange is true when the event completed a run of two or more lines.
	IsRange bool

	// Start and End bound the reported lines. For single-line results they
	// both equal the triggering line.
	Start int
	End   int

	// Kind is Added only when every line of the run was added.
	Kind annotation.ChangeKind

	// Contents holds the content of each line in [Start, End].
	Contents []string
}

// Len returns the number of lines reported.
func (r Result) Len() int {
	return r.End - r.Start + 1
}

// Option configures a Detector.
type Option func(*Detector)

// WithWindow sets the correlation window. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(det *Detector) {
		if d > 0 {
			det.window = d
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(det *Detector) {
		if now != nil {
			det.now = now
		}
	}
}

// Detector correlates recent single-line events into ranges.
// It is not safe for concurrent use.
type Detector struct {
	window time.Duration
	now    func() time.Time
	events []Event
}

// New creates a detector with the default window.
func New(opts ...Option) *Detector {
	d := &Detector{
		window: DefaultWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Window returns the correlation window.
func (d *Detector) Window() time.Duration {
	return d.window
}

// SetWindow changes the correlation window. Non-positive values are ignored.
func (d *Detector) SetWindow(w time.Duration) {
	if w > 0 {
		d.window = w
	}
}

// Observe records a line event and reports either a single line or a range.
//
// A range is reported when the retained window holds a run of consecutive
// line numbers containing line. The window is consumed by a range; a
// single-line result leaves it in place for later correlation.
// Runs that do not include line are never reported by this call; they stay
// in the window until a range consumes it or they age out.
func (d *Detector) Observe(line int, content string, kind annotation.ChangeKind) Result {
	single := Result{Start: line, End: line, Kind: kind, Contents: []string{content}}
	if line < 1 {
		return single
	}

	now := d.now()
	d.prune(now)
	d.add(Event{Line: line, Content: content, Kind: kind, Time: now})

	run := d.runContaining(line)
	if len(run) < 2 {
		return single
	}

	result := Result{
		IsRange:  true,
		Start:    run[0].Line,
		End:      run[len(run)-1].Line,
		Kind:     run[0].Kind,
		Contents: make([]string, 0, len(run)),
	}
	for _, ev := range run {
		result.Kind = result.Kind.Merge(ev.Kind)
		result.Contents = append(result.Contents, ev.Content)
	}

	d.events = d.events[:0]
	return result
}

// prune drops events older than the window.
func (d *Detector) prune(now time.Time) {
	cutoff := now.Add(-d.window)
	kept := d.events[:0]
	for _, ev := range d.events {
		if !ev.Time.Before(cutoff) {
			kept = append(kept, ev)
		}
	}
	d.events = kept
}

// add appends ev, replacing an earlier event for the same line.
func (d *Detector) add(ev Event) {
	for i := range d.events {
		if d.events[i].Line == ev.Line {
			d.events = append(d.events[:i], d.events[i+1:]...)
			break
		}
	}
	d.events = append(d.events, ev)
}

// runContaining returns the maximal run of consecutive lines that includes line.
func (d *Detector) runContaining(line int) []Event {
	sorted := make([]Event, len(d.events))
	copy(sorted, d.events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Line < sorted[j].Line
	})

	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && sorted[i].Line == sorted[i-1].Line+1 {
			continue
		}
		run := sorted[start:i]
		if run[0].Line <= line && line <= run[len(run)-1].Line {
			return run
		}
		start = i
	}
	return nil
}

// Pending returns a copy of the retained events.
func (d *Detector) Pending() []Event {
	result := make([]Event, len(d.events))
	copy(result, d.events)
	return result
}

// Len returns the number of retained events.
func (d *Detector) Len() int {
	return len(d.events)
}

// Reset discards all retained events.
func (d *Detector) Reset() {
	d.events = d.events[:0]
}
