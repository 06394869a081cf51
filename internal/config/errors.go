package config

import (
	"errors"
	"strings"
)

// ErrValidationFailed indicates the configuration holds invalid values.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError lists every invalid setting found.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
