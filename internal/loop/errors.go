package loop

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter indicates a parameter set that cannot produce a trajectory.
var ErrInvalidParameter = errors.New("loop: invalid parameter")

// ParamError reports which parameter failed validation.
type ParamError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s = %g: %s", ErrInvalidParameter, e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}
