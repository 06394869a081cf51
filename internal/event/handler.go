package event

import "context"

// Handler receives events from the bus. The event arrives type-erased; most
// handlers assert it to the Event[T] they expect and ignore the rest.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc lets a plain function act as a Handler.
type HandlerFunc func(ctx context.Context, event any) error

func (f HandlerFunc) Handle(ctx context.Context, event any) error { return f(ctx, event) }

// TypedHandlerFunc handles one payload type.
type TypedHandlerFunc[T any] func(ctx context.Context, event Event[T]) error

// AsHandlerFunc does the type assertion for fn. A subscriber on a wildcard
// pattern sees many payload types; the ones that are not T are dropped
// without error.
func AsHandlerFunc[T any](fn TypedHandlerFunc[T]) Handler {
	return HandlerFunc(func(ctx context.Context, event any) error {
		typed, ok := event.(Event[T])
		if !ok {
			return nil
		}
		return fn(ctx, typed)
	})
}
