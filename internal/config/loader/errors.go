package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat indicates a file extension with no decoder.
	ErrUnknownFormat = errors.New("unknown config format")

	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")
)

// ParseError locates a decoding failure in a configuration file.
// Line and Column are 1-based and zero when the decoder gave no position.
type ParseError struct {
	Path   string
	Format Format
	Line   int
	Column int
	Err    error
}

// Error formats the error as path:line:column: format: cause.
func (e *ParseError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
		if e.Column > 0 {
			loc = fmt.Sprintf("%s:%d", loc, e.Column)
		}
	}
	return fmt.Sprintf("%s: %s: %v", loc, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
