package block

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/linemark/internal/engine/annotation"
)

func facts(author annotation.Author, kind annotation.ChangeKind, lines ...int) []annotation.LineFact {
	result := make([]annotation.LineFact, len(lines))
	for i, l := range lines {
		result[i] = annotation.LineFact{Line: l, Author: author, Kind: kind}
	}
	return result
}

var doc = strings.Split("l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8", "\n")

func TestGroupConsecutiveRuns(t *testing.T) {
	blocks := Group(facts("alice", annotation.Added, 7, 2, 3, 4), doc)

	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %v", blocks)
	}
	if blocks[0].Start != 2 || blocks[0].End != 4 {
		t.Errorf("first block = %v, want [2-4]", blocks[0])
	}
	if !reflect.DeepEqual(blocks[0].Lines, []string{"l2", "l3", "l4"}) {
		t.Errorf("first block lines = %v", blocks[0].Lines)
	}
	if blocks[1].Start != 7 || blocks[1].End != 7 {
		t.Errorf("second block = %v, want [7-7]", blocks[1])
	}
	if blocks[0].ID == blocks[1].ID || blocks[0].ID == "" {
		t.Errorf("blocks need distinct IDs, got %q and %q", blocks[0].ID, blocks[1].ID)
	}
}

func TestGroupMixedKindsDegradeToEdited(t *testing.T) {
	in := append(facts("alice", annotation.Added, 1, 2), facts("alice", annotation.Edited, 3)...)
	blocks := Group(in, doc)

	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %v", blocks)
	}
	if blocks[0].Kind != annotation.Edited {
		t.Errorf("mixed block should be edited, got %v", blocks[0].Kind)
	}
}

func TestGroupSplitsOnAuthor(t *testing.T) {
	in := append(facts("alice", annotation.Added, 1, 2), facts("bob", annotation.Added, 3)...)
	if blocks := Group(in, doc); len(blocks) != 2 {
		t.Errorf("expected author change to split blocks, got %v", blocks)
	}
}

func TestGroupEmptyAndShortBuffer(t *testing.T) {
	if blocks := Group(nil, doc); blocks != nil {
		t.Errorf("expected nil for no facts, got %v", blocks)
	}
	blocks := Group(facts("alice", annotation.Added, 20), doc)
	if len(blocks) != 1 || blocks[0].Lines[0] != "" {
		t.Errorf("line past buffer end should be empty, got %v", blocks)
	}
}

func TestSplit(t *testing.T) {
	original := Block{
		ID:     NewID(),
		Start:  3,
		End:    7,
		Author: "alice",
		Kind:   annotation.Edited,
		Lines:  []string{"c", "d", "e", "f", "g"},
	}

	a, b, ok := Split(original, 5)
	if !ok {
		t.Fatal("expected split at 5 to succeed")
	}
	if a.Start != 3 || a.End != 4 {
		t.Errorf("first half = %v, want [3-4]", a)
	}
	if b.Start != 5 || b.End != 7 {
		t.Errorf("second half = %v, want [5-7]", b)
	}
	joined := append(append([]string(nil), a.Lines...), b.Lines...)
	if !reflect.DeepEqual(joined, original.Lines) {
		t.Errorf("contents changed by split: %v", joined)
	}
	if a.ID == original.ID || b.ID == original.ID || a.ID == b.ID {
		t.Error("split blocks need fresh IDs")
	}
	if a.Author != "alice" || b.Kind != annotation.Edited {
		t.Error("split blocks should keep author and kind")
	}

	for _, at := range []int{3, 7, 1, 9} {
		if _, _, ok := Split(original, at); ok {
			t.Errorf("split at %d should fail", at)
		}
	}
}

func TestSplitDoesNotAliasOriginal(t *testing.T) {
	original := Block{Start: 1, End: 3, Lines: []string{"a", "b", "c"}}
	a, _, _ := Split(original, 2)
	a.Lines[0] = "changed"
	if original.Lines[0] != "a" {
		t.Error("split must copy line contents")
	}
}

func TestBlockShift(t *testing.T) {
	b := Block{Start: 2, End: 4, Lines: []string{"x", "y", "z"}}
	moved := b.Shift(3)
	if moved.Start != 5 || moved.End != 7 {
		t.Errorf("Shift(3) = %v", moved)
	}
	if b.Start != 2 {
		t.Error("Shift must not modify the receiver")
	}
	if !moved.Contains(6) || moved.Contains(4) {
		t.Error("Contains disagrees with shifted bounds")
	}
}
