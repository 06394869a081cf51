package topic

import "strings"

// Topic names a kind of event, e.g. "annotation.range.cleared". A Topic used
// to subscribe may contain wildcard segments; a published one may not.
type Topic string

const (
	// Separator splits a topic into segments.
	Separator = "."

	// WildcardSingle stands for exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti stands for any run of segments, including an empty one.
	WildcardMulti = "**"
)

func (t Topic) String() string { return string(t) }

// Segments splits t on Separator. The empty topic has no segments.
func (t Topic) Segments() []string {
	if len(t) == 0 {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Root is the first segment, which names the engine area that published
// the event: "annotation", "block", "repository" and so on.
func (t Topic) Root() string {
	head, _, _ := strings.Cut(string(t), Separator)
	return head
}

// IsPattern reports whether any segment is a wildcard.
func (t Topic) IsPattern() bool {
	for _, seg := range t.Segments() {
		if seg == WildcardSingle || seg == WildcardMulti {
			return true
		}
	}
	return false
}

// IsValid rejects empty topics, empty segments and segments that mix a
// star with other characters ("block*").
func (t Topic) IsValid() bool {
	segs := t.Segments()
	if len(segs) == 0 {
		return false
	}
	for _, seg := range segs {
		switch {
		case seg == "":
			return false
		case seg == WildcardSingle, seg == WildcardMulti:
		case strings.Contains(seg, WildcardSingle):
			return false
		}
	}
	return true
}

// Matches reports whether t is covered by pattern.
//
// Matching walks both segment lists once. On a mismatch it falls back to
// the most recent "**" in the pattern and lets it swallow one more segment.
func (t Topic) Matches(pattern Topic) bool {
	name, pat := t.Segments(), pattern.Segments()

	n, p := 0, 0
	star, mark := -1, 0
	for n < len(name) {
		switch {
		case p < len(pat) && pat[p] == WildcardMulti:
			star, mark = p, n
			p++
		case p < len(pat) && (pat[p] == WildcardSingle || pat[p] == name[n]):
			n++
			p++
		case star >= 0:
			mark++
			n, p = mark, star+1
		default:
			return false
		}
	}
	for p < len(pat) && pat[p] == WildcardMulti {
		p++
	}
	return p == len(pat)
}
