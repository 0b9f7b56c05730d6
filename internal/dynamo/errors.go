package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for solver construction and configuration.
var (
	// ErrInvalidGrid indicates grid dimensions a solver cannot work with.
	ErrInvalidGrid = errors.New("dynamo: invalid grid dimensions")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrSourceInBarrier indicates the source row overlaps the barrier band.
	ErrSourceInBarrier = errors.New("dynamo: source row intersects barrier")

	// ErrUnknownParam indicates a parameter name the target does not expose.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrUnstable indicates the field diverged (NaN, Inf or runaway amplitude).
	ErrUnstable = errors.New("dynamo: simulation unstable (field diverged)")
)

// DivergenceError records where a field first went unstable.
type DivergenceError struct {
	Step int
	X, Y int
	Peak float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("step %d: |a|=%g at (%d,%d): %v", e.Step, e.Peak, e.X, e.Y, ErrUnstable)
}

func (e *DivergenceError) Unwrap() error {
	return ErrUnstable
}
