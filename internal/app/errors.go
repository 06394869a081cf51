package app

import (
	"errors"
	"fmt"
)

var (
	// ErrQuit ends Run without reporting a failure.
	ErrQuit           = errors.New("app: quit")
	ErrAlreadyRunning = errors.New("app: already running")
	ErrShutDown       = errors.New("app: shut down")
	// ErrNoConfigPath is returned by Reload when the session started from
	// built-in defaults.
	ErrNoConfigPath = errors.New("app: started without a config file")
)

// ComponentError names the wired part that failed ("config", "script",
// "terminal") and, when known, what it was doing.
type ComponentError struct {
	Component string
	Action    string
	Err       error
}

func (e *ComponentError) Error() string {
	what := e.Component
	if e.Action != "" {
		what += " " + e.Action
	}
	return fmt.Sprintf("%s: %v", what, e.Err)
}

func (e *ComponentError) Unwrap() error { return e.Err }
