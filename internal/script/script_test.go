package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/linemark/internal/collab"
)

func newTestRunner(t *testing.T, text string) (*Runner, *collab.Hub, *bytes.Buffer) {
	t.Helper()
	clock := NewVirtualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	hub := collab.NewHub(collab.HubConfig{Text: text, Clock: clock.Now})
	var out bytes.Buffer
	r := NewRunner(hub, clock, WithOutput(&out), WithTimeout(2*time.Second))
	t.Cleanup(func() {
		r.Close()
		hub.Close()
	})
	return r, hub, &out
}

func TestRunner_EndToEndScenario(t *testing.T) {
	r, hub, out := newTestRunner(t, "one\ntwo\nthree\nfour")

	code := `
local a, b = side("a"), side("b")
a:added(2)
wait(100)
a:added(3)
for _, r in ipairs(a:ranges()) do
  print(r.start, r["end"], r.author, r.kind)
end
assert(a:push())
local blocks = b:blocks()
assert(#blocks == 1)
print(blocks[1].start, blocks[1]["end"], #blocks[1].lines)
assert(b:pull())
assert(#b:blocks() == 0)
assert(not b:pull())
`
	if err := r.Run(context.Background(), "e2e", code); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := "2\t3\tUser A\tadded\n2\t3\t2\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if !hub.A().Slot().Load().Empty() {
		t.Error("pull must clear the pushing side's slot")
	}
}

func TestRunner_WaitSeparatesBursts(t *testing.T) {
	r, hub, _ := newTestRunner(t, "1\n2\n3\n4\n5\n6\n7")

	code := `
local a = side("a")
a:edit(5, "x")
wait(1000)
a:edit(6, "y")
wait(1000)
a:edit(7, "z")
`
	if err := r.Run(context.Background(), "spaced", code); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := len(hub.A().Facts()); got != 3 {
		t.Errorf("facts = %d, want 3", got)
	}
	// consolidation still joins the adjacent single-line facts
	ranges := hub.A().View().Ranges
	if len(ranges) != 1 || ranges[0].Start != 5 || ranges[0].End != 7 {
		t.Errorf("ranges = %v", ranges)
	}
}

func TestRunner_SplitAndDismiss(t *testing.T) {
	r, hub, out := newTestRunner(t, "1\n2\n3\n4\n5\n6\n7\n8")

	code := `
local a, b = side("a"), side("b")
for i = 3, 7 do a:edit(i, "e" .. i) end
a:push()
local id = b:blocks()[1].id
assert(not b:split(id, 3))
assert(b:split(id, 5))
local halves = b:blocks()
print(#halves, halves[1]["end"], halves[2].start)
assert(b:dismiss(halves[1].id))
print(#b:blocks(), now())
`
	if err := r.Run(context.Background(), "split", code); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "2\t4\t5\n1\t0\n" {
		t.Errorf("output = %q", out.String())
	}
	if len(hub.B().View().Blocks) != 1 {
		t.Errorf("blocks = %v", hub.B().View().Blocks)
	}
}

func TestRunner_Sandbox(t *testing.T) {
	r, _, _ := newTestRunner(t, "")

	tests := []struct {
		name string
		code string
	}{
		{"os", `os.exit(1)`},
		{"io", `io.write("x")`},
		{"dofile", `dofile("/etc/passwd")`},
		{"require", `require("io")`},
		{"load", `load("return 1")()`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Run(context.Background(), tt.name, tt.code); err == nil {
				t.Errorf("%s should not be available", tt.name)
			}
		})
	}
}

func TestRunner_Errors(t *testing.T) {
	r, _, _ := newTestRunner(t, "")

	if err := r.Run(context.Background(), "syntax", "this is not lua"); err == nil {
		t.Error("expected syntax error")
	}
	err := r.Run(context.Background(), "unknown side", `side("c")`)
	if err == nil || !strings.Contains(err.Error(), "unknown side") {
		t.Errorf("expected unknown side error, got %v", err)
	}
	if err := r.Run(context.Background(), "wait", `wait(-1)`); err == nil {
		t.Error("expected error for negative wait")
	}
}

func TestRunner_WaitRunsDueWorkAcrossCalls(t *testing.T) {
	clock := NewVirtualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	hub := collab.NewHub(collab.HubConfig{
		Text:           "one\ntwo",
		Clock:          clock.Now,
		Timings:        collab.Timings{ConsolidateDelay: time.Hour, ReanchorDelay: time.Hour},
		ManualDeferred: true,
	})
	defer hub.Close()
	r := NewRunner(hub, clock, WithTimeout(5*time.Second))
	defer r.Close()

	code := `
local a = side("a")
a:edit(1, "x")
for i = 1, 3599 do wait(1000) end
assert(#a:ranges() == 0, "consolidated too early")
wait(1000)
assert(#a:ranges() == 1, "not consolidated once the delay elapsed")
`
	if err := r.Run(context.Background(), "waits", code); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if clock.Elapsed() != time.Hour {
		t.Errorf("elapsed = %v, want 1h", clock.Elapsed())
	}
}

func TestRunner_Timeout(t *testing.T) {
	clock := NewVirtualClock(time.Now())
	hub := collab.NewHub(collab.HubConfig{Clock: clock.Now})
	defer hub.Close()
	r := NewRunner(hub, clock, WithTimeout(50*time.Millisecond))
	defer r.Close()

	err := r.Run(context.Background(), "loop", `while true do end`)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestRunner_RunFileAndClose(t *testing.T) {
	r, hub, _ := newTestRunner(t, "x")

	path := filepath.Join(t.TempDir(), "scenario.lua")
	if err := os.WriteFile(path, []byte(`side("b"):set_text("y\nx")`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile failed: %v", err)
	}
	if got := hub.B().Text(); got != "y\nx" {
		t.Errorf("text = %q", got)
	}

	if err := r.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected error for missing file")
	}

	r.Close()
	if err := r.Run(context.Background(), "closed", "x = 1"); !errors.Is(err, ErrRunnerClosed) {
		t.Errorf("expected ErrRunnerClosed, got %v", err)
	}
}

func TestVirtualClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewVirtualClock(start)

	c.Advance(1500 * time.Millisecond)
	c.Advance(-time.Hour)

	if c.Elapsed() != 1500*time.Millisecond {
		t.Errorf("Elapsed = %v", c.Elapsed())
	}
	if !c.Now().Equal(start.Add(1500 * time.Millisecond)) {
		t.Errorf("Now = %v", c.Now())
	}
}
