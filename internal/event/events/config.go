package events

import "github.com/dshills/linemark/internal/event/topic"

// TopicConfigReloaded is published after the config file changes on disk
// and has been applied.
const TopicConfigReloaded topic.Topic = "config.reloaded"

// ConfigReloaded describes a successful reload.
type ConfigReloaded struct {
	// Path is the file that was reloaded.
	Path string
}
