// Package collab wires the annotation engine into two cooperating sides
// editing copies of the same buffer.
//
// Each [Side] owns its document, line facts, consolidated ranges,
// reservations and burst detector. Sides exchange data only through push and
// pull:
//
//   - Push drains the side's facts into change blocks, writes them to the
//     side's [Slot] and hands copies to the peer as pending blocks.
//   - Pull merges the peer's pushed content into the side's document and
//     clears both the side's annotations and the peer's slot.
//
// Engine notifications are published to a [Notifier] after the side's lock
// has been released. A nil notifier drops them.
package collab
