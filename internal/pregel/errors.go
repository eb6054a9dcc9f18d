package pregel

import "errors"

// ErrNonConvergence is returned when the superstep bound is exceeded. Given
// monotone verdicts this indicates a defect, not a property of the input.
var ErrNonConvergence = errors.New("evaluation did not converge")
