package modelfile

import (
	"errors"
	"fmt"
)

var (
	ErrFieldCount = errors.New("wrong number of fields")
	ErrNumber     = errors.New("invalid number")
	ErrFlag       = errors.New("constant flag must be 0 or 1")
	ErrSection    = errors.New("line outside of a valid section")
	ErrSpeciesRef = errors.New("unknown species index")
)

// ParseError reports the first malformed line of a model description.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("modelfile: line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
