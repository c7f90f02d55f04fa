package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch     = errors.New("checksum mismatch: file may be corrupted")
	ErrOffsetOverlap        = errors.New("tensor offsets overlap")
	ErrOutOfBounds          = errors.New("tensor extends beyond data section")
	ErrNegativeOffset       = errors.New("negative offset or size")
	ErrTooManyTensors       = errors.New("too many tensors in file")
	ErrTensorNameTooLong    = errors.New("tensor name too long")
	ErrInvalidTensorName    = errors.New("invalid tensor name")
	ErrHeaderTooLarge       = errors.New("header exceeds maximum size")
	ErrInvalidMagic         = errors.New("invalid magic bytes")
	ErrUnsupportedVersion   = errors.New("unsupported format version")
	ErrTensorNotFound       = errors.New("tensor not found")
	ErrArchitectureMismatch = errors.New("tensors do not match the network architecture")
	ErrUnknownOptimizer     = errors.New("unknown optimizer type")
)

// ValidationError provides detailed information about validation failures.
// errors.Is matches it against the sentinel for its Type.
type ValidationError struct {
	Type    string // Type of error (e.g., "offset_overlap", "out_of_bounds")
	Tensor  string // Primary tensor name involved
	Tensor2 string // Secondary tensor name (for overlap errors)
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tensor2 != "" {
		return fmt.Sprintf("%s: tensors %q and %q: %s", e.Type, e.Tensor, e.Tensor2, e.Details)
	}
	if e.Tensor != "" {
		return fmt.Sprintf("%s: tensor %q: %s", e.Type, e.Tensor, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

var validationSentinels = map[string]error{
	"offset_overlap":   ErrOffsetOverlap,
	"out_of_bounds":    ErrOutOfBounds,
	"negative_offset":  ErrNegativeOffset,
	"too_many_tensors": ErrTooManyTensors,
	"name_too_long":    ErrTensorNameTooLong,
	"invalid_name":     ErrInvalidTensorName,
	"architecture":     ErrArchitectureMismatch,
}

// Unwrap returns the sentinel error for e.Type, if any.
func (e *ValidationError) Unwrap() error {
	return validationSentinels[e.Type]
}
