package serialization

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/born-ml/nnlab/internal/nn"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize    = 16 * 1024 * 1024 // 16MB - maximum header size
	MaxTensorCount   = 10_000           // Maximum number of tensors in a file
	MaxTensorNameLen = 256              // Maximum tensor name length
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal checks names and sizes but not offsets.
	ValidationNormal
	// ValidationNone skips header validation. Use only with trusted input;
	// Network still rejects tensors that do not fit the architecture.
	ValidationNone
)

// ValidateTensorOffsets checks for overlapping tensor regions and regions
// outside the data section.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(tensors), MaxTensorCount),
		}
	}

	sorted := slices.Clone(tensors)
	slices.SortFunc(sorted, func(a, b TensorMeta) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	for i, t := range sorted {
		if t.Offset < 0 || t.Size < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset=%d, size=%d (negative values not allowed)", t.Offset, t.Size),
			}
		}

		if t.Offset+t.Size > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", t.Offset, t.Size, dataSize),
			}
		}

		if i < len(sorted)-1 {
			next := sorted[i+1]
			if t.Offset+t.Size > next.Offset {
				return &ValidationError{
					Type:    "offset_overlap",
					Tensor:  t.Name,
					Tensor2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						t.Offset, t.Offset+t.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}

	return nil
}

// ValidateTensorName rejects empty, overlong and non-printable names and
// names carrying path elements.
func ValidateTensorName(name string) error {
	if name == "" {
		return &ValidationError{Type: "invalid_name", Details: "empty tensor name"}
	}
	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Tensor:  name[:32] + "...",
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "contains a path element",
		}
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return &ValidationError{
				Type:    "invalid_name",
				Tensor:  name,
				Details: fmt.Sprintf("contains control character %U", r),
			}
		}
	}
	return nil
}

// validateTensorMeta checks the dtype and that the byte size matches the shape.
func validateTensorMeta(m TensorMeta) error {
	if m.DType != DTypeFloat64 {
		return &ValidationError{
			Type:    "invalid_dtype",
			Tensor:  m.Name,
			Details: fmt.Sprintf("dtype %q, want %q", m.DType, DTypeFloat64),
		}
	}
	for _, d := range m.Shape {
		if d <= 0 {
			return &ValidationError{
				Type:    "invalid_shape",
				Tensor:  m.Name,
				Details: fmt.Sprintf("shape %v has a non-positive dimension", m.Shape),
			}
		}
	}
	if want := m.NumElements() * Float64Size; m.Size != want {
		return &ValidationError{
			Type:    "invalid_size",
			Tensor:  m.Name,
			Details: fmt.Sprintf("size %d, shape %v needs %d", m.Size, m.Shape, want),
		}
	}
	return nil
}

// ValidateArchitecture checks that the parameter tensors in h are exactly
// the parameters of a network with h.LayerSizes, in Parameters() order.
//
// The expected tensors are derived from the layer sizes alone; no network
// is built. Layer sizes whose parameters would not fit in dataSize bytes
// are rejected before anything is allocated for them.
func ValidateArchitecture(h *Header, dataSize int64) error {
	cfg := nn.Config{LayerSizes: h.LayerSizes, Hidden: h.Activation, Output: h.OutputMode}
	if err := cfg.Validate(); err != nil {
		return &ValidationError{Type: "architecture", Details: err.Error()}
	}

	want, err := architectureMetas(h.LayerSizes, dataSize/Float64Size)
	if err != nil {
		return err
	}

	metas := parameterMetas(h.Tensors)
	if len(metas) != len(want) {
		return &ValidationError{
			Type:    "architecture",
			Details: fmt.Sprintf("layer sizes %v need %d parameter tensors, file has %d", h.LayerSizes, len(want), len(metas)),
		}
	}
	for i, w := range want {
		m := metas[i]
		if m.Name != w.Name || !slices.Equal(m.Shape, w.Shape) {
			return &ValidationError{
				Type:    "architecture",
				Tensor:  m.Name,
				Details: fmt.Sprintf("tensor %d is %s%v, want %s%v", i, m.Name, m.Shape, w.Name, w.Shape),
			}
		}
	}
	return nil
}

// architectureMetas lists the names and shapes of the parameters of a
// network with the given (positive) layer sizes, failing once their total
// element count would exceed maxElems.
func architectureMetas(sizes []int, maxElems int64) ([]TensorMeta, error) {
	if n := 2 * (len(sizes) - 1); n > MaxTensorCount {
		return nil, &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("%d layers need %d tensors, max %d", len(sizes), n, MaxTensorCount),
		}
	}

	tooBig := &ValidationError{
		Type:    "out_of_bounds",
		Details: fmt.Sprintf("layer sizes %v need more than the %d values in the data section", sizes, maxElems),
	}
	budget := maxElems
	metas := make([]TensorMeta, 0, 2*(len(sizes)-1))
	for l := 0; l+1 < len(sizes); l++ {
		in, out := int64(sizes[l]), int64(sizes[l+1])
		if in > budget/out {
			return nil, tooBig
		}
		budget -= in * out
		if out > budget {
			return nil, tooBig
		}
		budget -= out
		metas = append(metas,
			TensorMeta{Name: fmt.Sprintf("layer.%d.weight", l), Shape: []int{sizes[l], sizes[l+1]}},
			TensorMeta{Name: fmt.Sprintf("layer.%d.bias", l+1), Shape: []int{sizes[l+1]}},
		)
	}
	return metas, nil
}

// parameterMetas returns the non-optimizer tensors in file order.
func parameterMetas(tensors []TensorMeta) []TensorMeta {
	out := make([]TensorMeta, 0, len(tensors))
	for _, t := range tensors {
		if !strings.HasPrefix(t.Name, OptimizerPrefix) {
			out = append(out, t)
		}
	}
	return out
}

// ValidateHeader performs header validation at the given level.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	if len(h.Tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(h.Tensors), MaxTensorCount),
		}
	}

	seen := make(map[string]bool, len(h.Tensors))
	for _, t := range h.Tensors {
		if err := ValidateTensorName(t.Name); err != nil {
			return err
		}
		if seen[t.Name] {
			return &ValidationError{Type: "invalid_name", Tensor: t.Name, Details: "duplicate tensor name"}
		}
		seen[t.Name] = true
		if err := validateTensorMeta(t); err != nil {
			return err
		}
	}

	if err := ValidateArchitecture(h, dataSize); err != nil {
		return err
	}

	if level == ValidationStrict {
		if err := ValidateTensorOffsets(h.Tensors, dataSize); err != nil {
			return err
		}
	}

	return nil
}
