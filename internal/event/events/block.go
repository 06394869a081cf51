package events

import (
	"github.com/dshills/linemark/internal/engine/block"
	"github.com/dshills/linemark/internal/event/topic"
)

// Block event topics.
const (
	// TopicBlockCreated is published when a pending block is added to a side.
	TopicBlockCreated topic.Topic = "block.created"

	// TopicBlockRemoved is published when a pending block is dismissed,
	// split, or discarded by a pull.
	TopicBlockRemoved topic.Topic = "block.removed"
)

// BlockCreated carries a copy of the new pending block.
type BlockCreated struct {
	Side  string
	Block block.Block
}

// BlockRemoved names the removed block.
type BlockRemoved struct {
	Side    string
	BlockID block.ID
}
