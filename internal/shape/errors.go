package shape

import (
	"errors"
	"fmt"
)

// ErrMalformed is the sentinel wrapped by every MalformedError.
var ErrMalformed = errors.New("malformed shape")

// MalformedError reports a shape rejected at construction or compile time.
// Shape is the diagnostic name of the offending shape.
type MalformedError struct {
	Shape string
	Msg   string
}

func (e *MalformedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Shape == "" {
		return fmt.Sprintf("%s: %s", ErrMalformed.Error(), e.Msg)
	}
	return fmt.Sprintf("%s: %q: %s", ErrMalformed.Error(), e.Shape, e.Msg)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

func malformed(name, format string, args ...any) error {
	return &MalformedError{Shape: name, Msg: fmt.Sprintf(format, args...)}
}
