// Package reconcile merges two copies of a buffer and re-anchors annotated
// lines after the buffer changed.
//
// The merge is positional: line i of one buffer is compared with line i of the
// other, never by content. Whenever the two copies diverged by inserting or
// deleting lines rather than editing them, lines after the divergence are
// attributed to the wrong position. That weakness is accepted; the merge is
// not a diff.
package reconcile

import "strings"

// Merge combines target and source position by position.
//
// Where both buffers have a line at index i and they differ, the source line
// wins. Lines present in only one buffer are kept from that buffer.
func Merge(target, source []string) []string {
	n := max(len(target), len(source))
	merged := make([]string, n)
	for i := 0; i < n; i++ {
		switch {
		case i >= len(source):
			merged[i] = target[i]
		case i >= len(target):
			merged[i] = source[i]
		case target[i] != source[i]:
			merged[i] = source[i]
		default:
			merged[i] = target[i]
		}
	}
	return merged
}

// MergeText is Merge on newline separated text.
func MergeText(target, source string) string {
	return JoinLines(Merge(SplitLines(target), SplitLines(source)))
}

// IndexOf returns the 0-based index of the first line equal to content, or -1.
func IndexOf(lines []string, content string) int {
	for i, l := range lines {
		if l == content {
			return i
		}
	}
	return -1
}

// Reanchor returns the 1-based line of the first line equal to content,
// even when content also still sits at line. Without a match the old line
// is returned unchanged.
func Reanchor(line int, content string, lines []string) int {
	if idx := IndexOf(lines, content); idx >= 0 {
		return idx + 1
	}
	return line
}

// SplitLines splits text into lines. An empty text is a single empty line.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// JoinLines joins lines with newlines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// Equal returns true if both buffers hold the same lines.
func Equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
