package events

import "github.com/dshills/linemark/internal/event/topic"

// Repository event topics.
const (
	// TopicRepositoryPushed is published after a side pushes its changes.
	TopicRepositoryPushed topic.Topic = "repository.pushed"

	// TopicRepositoryPulled is published after a side pulls peer content.
	TopicRepositoryPulled topic.Topic = "repository.pulled"
)

// RepositoryPushed describes a push.
type RepositoryPushed struct {
	// Side is the pushing side.
	Side string

	// Facts is the number of line facts sent.
	Facts int

	// Blocks is the number of change blocks sent.
	Blocks int
}

// RepositoryPulled describes a pull.
type RepositoryPulled struct {
	// Side is the pulling side.
	Side string

	// Lines is the line count of the merged document.
	Lines int

	// Discarded is the number of pending blocks dropped by the pull.
	Discarded int
}
