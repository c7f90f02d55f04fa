package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrConfiguration = errors.New("invalid network configuration")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrEmptyDataset  = errors.New("empty dataset")
)

// ShapeError reports a vector whose length does not match the layer it is
// fed to or compared against.
type ShapeError struct {
	Op   string // Operation that rejected the vector ("forward", "loss", ...)
	Want int    // Expected length (the layer size)
	Got  int    // Length actually supplied
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: want length %d, got %d", e.Op, ErrShapeMismatch, e.Want, e.Got)
}

// Unwrap allows errors.Is(err, ErrShapeMismatch).
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

func checkLen(op string, want int, v []float64) error {
	if len(v) != want {
		return &ShapeError{Op: op, Want: want, Got: len(v)}
	}
	return nil
}

func indexError(what string, idx, bound int) error {
	return fmt.Errorf("%w: %s index %d out of range [0, %d)", ErrShapeMismatch, what, idx, bound)
}
