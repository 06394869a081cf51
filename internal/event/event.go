package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/linemark/internal/event/topic"
)

// Event carries a payload under a topic. Values are passed by copy and
// never modified after NewEvent.
type Event[T any] struct {
	Type     topic.Topic
	Payload  T
	Metadata Metadata
}

// Metadata is stamped on every event by NewEvent.
type Metadata struct {
	ID        string
	Timestamp time.Time
	// Source is the publishing side ("a", "b") or "app".
	Source string
}

// NewEvent stamps payload with a fresh ID and the current time.
func NewEvent[T any](t topic.Topic, payload T, source string) Event[T] {
	e := Event[T]{Type: t, Payload: payload}
	e.Metadata.ID = uuid.NewString()
	e.Metadata.Timestamp = time.Now()
	e.Metadata.Source = source
	return e
}

func (e Event[T]) EventTopic() topic.Topic { return e.Type }
func (e Event[T]) EventMetadata() Metadata { return e.Metadata }
func (e Event[T]) EventPayload() any { return e.Payload }

// The bus and generic subscribers only see events through these
// interfaces, since Event[T] has no common non-generic form.
type (
	TopicProvider    interface{ EventTopic() topic.Topic }
	MetadataProvider interface{ EventMetadata() Metadata }
	PayloadProvider  interface{ EventPayload() any }

	// Envelope is everything an Event[T] exposes without knowing T.
	Envelope interface {
		TopicProvider
		MetadataProvider
		PayloadProvider
	}
)
