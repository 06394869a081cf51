package burst

import (
	"reflect"
	"testing"
	"time"

	"github.com/dshills/linemark/internal/engine/annotation"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDetector() (*Detector, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	return New(WithClock(clock.Now)), clock
}

func TestDetectorSingleEvent(t *testing.T) {
	d, _ := newTestDetector()

	r := d.Observe(4, "four", annotation.Edited)
	if r.IsRange {
		t.Fatalf("single event reported as range: %+v", r)
	}
	if r.Start != 4 || r.End != 4 {
		t.Errorf("expected line 4, got %d-%d", r.Start, r.End)
	}
	if d.Len() != 1 {
		t.Errorf("single result should retain the window, got %d events", d.Len())
	}
}

func TestDetectorBurstWithinWindow(t *testing.T) {
	d, clock := newTestDetector()

	results := []Result{d.Observe(5, "five", annotation.Added)}
	clock.Advance(40 * time.Millisecond)
	results = append(results, d.Observe(6, "six", annotation.Added))
	clock.Advance(40 * time.Millisecond)
	results = append(results, d.Observe(7, "seven", annotation.Added))

	if results[0].IsRange {
		t.Errorf("first event should be single, got %+v", results[0])
	}
	if !results[1].IsRange || results[1].Start != 5 || results[1].End != 6 {
		t.Errorf("second event should close range 5-6, got %+v", results[1])
	}
	if !reflect.DeepEqual(results[1].Contents, []string{"five", "six"}) {
		t.Errorf("unexpected contents %v", results[1].Contents)
	}
	if results[2].IsRange {
		t.Errorf("window was consumed, third event should be single, got %+v", results[2])
	}

	set := annotation.NewSet()
	for _, r := range results {
		set.Insert(annotation.NewRange(r.Start, r.End, "a", r.Kind))
	}
	want := []annotation.Range{annotation.NewRange(5, 7, "a", annotation.Added)}
	if !reflect.DeepEqual(set.Ranges(), want) {
		t.Errorf("expected one range [5,7], got %v", set.Ranges())
	}
}

func TestDetectorSpacedEventsStaySingle(t *testing.T) {
	d, clock := newTestDetector()

	for _, line := range []int{5, 6, 7} {
		r := d.Observe(line, "x", annotation.Edited)
		if r.IsRange {
			t.Errorf("line %d: spaced edits must not form a range, got %+v", line, r)
		}
		clock.Advance(time.Second)
	}
}

func TestDetectorOutOfOrderRun(t *testing.T) {
	d, clock := newTestDetector()

	d.Observe(7, "c", annotation.Added)
	clock.Advance(10 * time.Millisecond)
	d.Observe(5, "a", annotation.Added)
	clock.Advance(10 * time.Millisecond)
	r := d.Observe(6, "b", annotation.Added)

	if !r.IsRange || r.Start != 5 || r.End != 7 {
		t.Fatalf("expected range 5-7, got %+v", r)
	}
	if !reflect.DeepEqual(r.Contents, []string{"a", "b", "c"}) {
		t.Errorf("contents should follow line order, got %v", r.Contents)
	}
	if d.Len() != 0 {
		t.Errorf("range should clear the window, got %d events", d.Len())
	}
}

func TestDetectorRunNotStartingAtLowestLine(t *testing.T) {
	d, clock := newTestDetector()

	d.Observe(2, "", annotation.Edited)
	clock.Advance(10 * time.Millisecond)
	d.Observe(9, "", annotation.Edited)
	clock.Advance(10 * time.Millisecond)
	r := d.Observe(10, "", annotation.Edited)

	if !r.IsRange || r.Start != 9 || r.End != 10 {
		t.Errorf("expected range 9-10, got %+v", r)
	}
}

func TestDetectorMixedKindsDegrade(t *testing.T) {
	d, clock := newTestDetector()

	d.Observe(3, "", annotation.Added)
	clock.Advance(10 * time.Millisecond)
	r := d.Observe(4, "", annotation.Edited)

	if !r.IsRange {
		t.Fatalf("expected range, got %+v", r)
	}
	if r.Kind != annotation.Edited {
		t.Errorf("mixed run should be edited, got %v", r.Kind)
	}
}

func TestDetectorPrunesExpired(t *testing.T) {
	d, clock := newTestDetector()

	d.Observe(1, "", annotation.Added)
	clock.Advance(DefaultWindow + time.Millisecond)
	r := d.Observe(2, "", annotation.Added)

	if r.IsRange {
		t.Errorf("expired event must not correlate, got %+v", r)
	}
	if d.Len() != 1 {
		t.Errorf("expected 1 retained event, got %d", d.Len())
	}
}

func TestDetectorRepeatedLine(t *testing.T) {
	d, clock := newTestDetector()

	d.Observe(3, "one", annotation.Edited)
	clock.Advance(10 * time.Millisecond)
	r := d.Observe(3, "two", annotation.Edited)

	if r.IsRange {
		t.Errorf("repeated line is not a run, got %+v", r)
	}
	if d.Len() != 1 {
		t.Errorf("repeated line should replace the earlier event, got %d", d.Len())
	}
	if got := d.Pending()[0].Content; got != "two" {
		t.Errorf("expected latest content, got %q", got)
	}
}

func TestDetectorWindowOption(t *testing.T) {
	d := New(WithWindow(0))
	if d.Window() != DefaultWindow {
		t.Errorf("non-positive window should be ignored, got %v", d.Window())
	}
	d.SetWindow(2 * time.Second)
	if d.Window() != 2*time.Second {
		t.Errorf("SetWindow did not apply, got %v", d.Window())
	}
}

func TestDetectorInvalidLine(t *testing.T) {
	d, _ := newTestDetector()
	r := d.Observe(0, "", annotation.Added)
	if r.IsRange || d.Len() != 0 {
		t.Errorf("invalid line should be ignored, got %+v (len %d)", r, d.Len())
	}
}
