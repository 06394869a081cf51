package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		target []string
		source []string
		want   []string
	}{
		{
			name:   "source wins on differing lines",
			target: []string{"a", "b", "c"},
			source: []string{"a", "B", "c"},
			want:   []string{"a", "B", "c"},
		},
		{
			name:   "target tail kept",
			target: []string{"a", "b", "c", "d"},
			source: []string{"x", "b"},
			want:   []string{"x", "b", "c", "d"},
		},
		{
			name:   "source tail kept",
			target: []string{"a"},
			source: []string{"a", "b", "c"},
			want:   []string{"a", "b", "c"},
		},
		{
			name:   "both empty",
			target: nil,
			source: nil,
			want:   []string{},
		},
		{
			// positional merge misattributes shifted lines
			name:   "insertion shifts are not detected",
			target: []string{"one", "two", "three"},
			source: []string{"zero", "one", "two", "three"},
			want:   []string{"zero", "one", "two", "three"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.target, tt.source))
		})
	}
}

func TestMergeDeterministicAndIdentity(t *testing.T) {
	buf := []string{"package main", "", "func main() {}", ""}

	first := Merge(buf, buf)
	second := Merge(buf, buf)

	require.Equal(t, first, second)
	assert.True(t, Equal(first, buf))
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	target := []string{"a", "b"}
	source := []string{"a", "c"}
	merged := Merge(target, source)
	merged[0] = "z"

	assert.Equal(t, "a", target[0])
	assert.Equal(t, "a", source[0])
}

func TestMergeText(t *testing.T) {
	got := MergeText("alpha\nbeta\ngamma", "alpha\nBETA")
	assert.Equal(t, "alpha\nBETA\ngamma", got)
}

func TestReanchor(t *testing.T) {
	lines := []string{"header", "moved", "dup", "dup"}

	assert.Equal(t, 2, Reanchor(5, "moved", lines), "exact match moves the anchor")
	assert.Equal(t, 3, Reanchor(1, "dup", lines), "first match wins")
	assert.Equal(t, 3, Reanchor(4, "dup", lines), "an earlier match wins over the old line")
	assert.Equal(t, 7, Reanchor(7, "gone", lines), "missing content keeps the old line")
	assert.Equal(t, -1, IndexOf(nil, "x"))
}

func TestReanchorDuplicateContent(t *testing.T) {
	lines := SplitLines("dup\nb\ndup")

	assert.Equal(t, 1, Reanchor(3, "dup", lines))
	assert.Equal(t, 1, Reanchor(1, "dup", lines))
	assert.Equal(t, 2, Reanchor(3, "b", lines))
}

func TestSplitJoinLines(t *testing.T) {
	assert.Equal(t, []string{""}, SplitLines(""))
	assert.Equal(t, []string{"a", "b", ""}, SplitLines("a\nb\n"))
	assert.Equal(t, "a\nb", JoinLines([]string{"a", "b"}))
	assert.False(t, Equal([]string{"a"}, []string{"a", "b"}))
}
