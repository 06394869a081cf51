package collab

import "errors"

// ErrUnknownSide is returned when a hub is asked for a side it does not have.
var ErrUnknownSide = errors.New("unknown side")
