package event

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEvent means Publish got a value without a concrete topic.
	ErrInvalidEvent = errors.New("event: no concrete topic")
	// ErrInvalidTopic means a subscription pattern could not be parsed.
	ErrInvalidTopic = errors.New("event: malformed topic")
	// ErrSubscriptionNotFound means the subscription was already removed.
	ErrSubscriptionNotFound = errors.New("event: unknown subscription")
	// ErrHandlerPanic marks a handler that panicked during delivery.
	ErrHandlerPanic = errors.New("event: handler panic")
	// ErrNilHandler means Subscribe was called without a handler.
	ErrNilHandler = errors.New("event: nil handler")
)

// HandlerError is one failed delivery. Publish joins them, so callers can
// pull each out with errors.As.
type HandlerError struct {
	SubscriptionID string
	Topic          string
	Err            error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("event %s: subscriber %s: %v", e.Topic, e.SubscriptionID, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }
