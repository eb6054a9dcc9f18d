package pschema

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/pschema/internal/pregel"
)

var (
	// ErrEmptyGraph is returned when the graph has no vertices.
	ErrEmptyGraph = errors.New("graph has no vertices")
	// ErrNonConvergence is returned when evaluation exceeds its superstep
	// bound. It is an internal assertion and should be unreachable.
	ErrNonConvergence = pregel.ErrNonConvergence
)

// Kind classifies a ValidationError.
type Kind string

const (
	KindEmptyGraph     Kind = "empty_graph"
	KindNonConvergence Kind = "non_convergence"
	KindInterrupted    Kind = "interrupted"
)

// ValidationError is the single error a Validate call can report. Shape is
// the root shape's name, for diagnosis.
type ValidationError struct {
	Kind  Kind
	Shape string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Shape == "" {
		return fmt.Sprintf("validation failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("validation of %q failed (%s): %v", e.Shape, e.Kind, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
