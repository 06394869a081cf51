// Package topic defines hierarchical event topics and wildcard matching.
//
// Topics use dot notation, most general segment first:
//
//	annotation.range.annotated
//	block.created
//
// Patterns may contain wildcards:
//
//	annotation.*     one segment: annotation.cleared, not annotation.range.cleared
//	annotation.**    any number of segments, including none
//	*.created        block.created, repository.created
package topic
