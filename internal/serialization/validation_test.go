package serialization

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/born-ml/nnlab/internal/nn"
)

func TestValidateTensorOffsets(t *testing.T) {
	tests := []struct {
		name     string
		tensors  []TensorMeta
		dataSize int64
		wantType string // "" means valid
		sentinel error
	}{
		{
			name: "contiguous",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: 16},
				{Name: "b", Offset: 16, Size: 8},
			},
			dataSize: 24,
		},
		{
			name: "unsorted but disjoint",
			tensors: []TensorMeta{
				{Name: "b", Offset: 16, Size: 8},
				{Name: "a", Offset: 0, Size: 16},
			},
			dataSize: 24,
		},
		{
			name: "overlap by one byte",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: 16},
				{Name: "b", Offset: 15, Size: 8},
			},
			dataSize: 32,
			wantType: "offset_overlap",
			sentinel: ErrOffsetOverlap,
		},
		{
			name:     "past the end",
			tensors:  []TensorMeta{{Name: "a", Offset: 8, Size: 24}},
			dataSize: 24,
			wantType: "out_of_bounds",
			sentinel: ErrOutOfBounds,
		},
		{
			name:     "negative offset",
			tensors:  []TensorMeta{{Name: "a", Offset: -8, Size: 8}},
			dataSize: 24,
			wantType: "negative_offset",
			sentinel: ErrNegativeOffset,
		},
		{
			name:     "negative size",
			tensors:  []TensorMeta{{Name: "a", Offset: 0, Size: -8}},
			dataSize: 24,
			wantType: "negative_offset",
			sentinel: ErrNegativeOffset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensorOffsets(tt.tensors, tt.dataSize)
			if tt.wantType == "" {
				if err != nil {
					t.Fatalf("Expected no error, got: %v", err)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %T (%v)", err, err)
			}
			if ve.Type != tt.wantType {
				t.Errorf("Expected %s error, got %s", tt.wantType, ve.Type)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Expected errors.Is(err, %v)", tt.sentinel)
			}
		})
	}
}

func TestValidateTensorOffsets_TooManyTensors(t *testing.T) {
	tensors := make([]TensorMeta, MaxTensorCount+1)
	err := ValidateTensorOffsets(tensors, 0)
	if !errors.Is(err, ErrTooManyTensors) {
		t.Errorf("Expected ErrTooManyTensors, got: %v", err)
	}
}

func TestValidateTensorName(t *testing.T) {
	valid := []string{"layer.0.weight", "layer.12.bias", "optim.velocity.3", "optim.step"}
	for _, name := range valid {
		if err := ValidateTensorName(name); err != nil {
			t.Errorf("ValidateTensorName(%q) = %v, want nil", name, err)
		}
	}

	invalid := map[string]error{
		"":                       ErrInvalidTensorName,
		"../etc/passwd":          ErrInvalidTensorName,
		"layer/0":                ErrInvalidTensorName,
		`layer\0`:                ErrInvalidTensorName,
		"layer.0\x00.weight":     ErrInvalidTensorName,
		"layer.0\n":              ErrInvalidTensorName,
		strings.Repeat("x", 257): ErrTensorNameTooLong,
	}
	for name, want := range invalid {
		if err := ValidateTensorName(name); !errors.Is(err, want) {
			t.Errorf("ValidateTensorName(%q) = %v, want %v", name, err, want)
		}
	}
}

// headerFor builds the header a writer would produce for layer sizes.
func headerFor(sizes ...int) *Header {
	h := &Header{LayerSizes: sizes, Activation: nn.ActivationSigmoid, OutputMode: nn.OutputSigmoid}
	var offset int64
	for l := 0; l < len(sizes)-1; l++ {
		for _, m := range []TensorMeta{
			{Name: "layer." + strconv.Itoa(l) + ".weight", Shape: []int{sizes[l], sizes[l+1]}},
			{Name: "layer." + strconv.Itoa(l+1) + ".bias", Shape: []int{sizes[l+1]}},
		} {
			m.DType = DTypeFloat64
			m.Offset = offset
			m.Size = m.NumElements() * Float64Size
			offset += m.Size
			h.Tensors = append(h.Tensors, m)
		}
	}
	return h
}

func dataSizeOf(h *Header) int64 {
	var n int64
	for _, m := range h.Tensors {
		n += m.Size
	}
	return n
}

func TestValidateHeader(t *testing.T) {
	h := headerFor(2, 3, 1)
	if err := ValidateHeader(h, dataSizeOf(h), ValidationStrict); err != nil {
		t.Fatalf("Expected valid header, got: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(h *Header)
		level  ValidationLevel
		want   string
	}{
		{"wrong dtype", func(h *Header) { h.Tensors[0].DType = "float32" }, ValidationNormal, "invalid_dtype"},
		{"size vs shape", func(h *Header) { h.Tensors[1].Size = 8 }, ValidationNormal, "invalid_size"},
		{"zero dim", func(h *Header) { h.Tensors[1].Shape = []int{0} }, ValidationNormal, "invalid_shape"},
		{"duplicate", func(h *Header) { h.Tensors[2].Name = h.Tensors[0].Name }, ValidationNormal, "invalid_name"},
		{"transposed weight", func(h *Header) { h.Tensors[0].Shape = []int{3, 2} }, ValidationNormal, "architecture"},
		{"missing tensor", func(h *Header) { h.Tensors = h.Tensors[:3] }, ValidationNormal, "architecture"},
		{"bad layer sizes", func(h *Header) { h.LayerSizes = []int{2} }, ValidationNormal, "architecture"},
		{"overlap only strict", func(h *Header) { h.Tensors[1].Offset = 0 }, ValidationStrict, "offset_overlap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := headerFor(2, 3, 1)
			size := dataSizeOf(h)
			tt.mutate(h)

			var ve *ValidationError
			if err := ValidateHeader(h, size, tt.level); !errors.As(err, &ve) || ve.Type != tt.want {
				t.Errorf("ValidateHeader() = %v, want %s", err, tt.want)
			}
			if err := ValidateHeader(h, size, ValidationNone); err != nil {
				t.Errorf("ValidationNone should accept anything, got: %v", err)
			}
		})
	}

	overlap := headerFor(2, 3, 1)
	overlap.Tensors[1].Offset = 0
	if err := ValidateHeader(overlap, dataSizeOf(overlap), ValidationNormal); err != nil {
		t.Errorf("ValidationNormal should not check offsets, got: %v", err)
	}
}

func TestValidateArchitecture_Sentinel(t *testing.T) {
	h := headerFor(2, 2)
	h.Tensors[0].Name = "layer.0.weights"
	if err := ValidateArchitecture(h, dataSizeOf(h)); !errors.Is(err, ErrArchitectureMismatch) {
		t.Errorf("Expected ErrArchitectureMismatch, got: %v", err)
	}
}

func TestValidateArchitecture_Limits(t *testing.T) {
	h := headerFor(2, 3, 1)
	if err := ValidateArchitecture(h, dataSizeOf(h)); err != nil {
		t.Fatalf("Expected exact fit to pass, got: %v", err)
	}
	if err := ValidateArchitecture(h, dataSizeOf(h)-Float64Size); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds one value short, got: %v", err)
	}

	tests := []struct {
		name  string
		sizes []int
		want  error
	}{
		{"huge input", []int{1 << 46, 1}, ErrOutOfBounds},
		{"product overflows", []int{math.MaxInt, math.MaxInt}, ErrOutOfBounds},
		{"deep overflow", []int{3, 1 << 40, 1 << 40, 1}, ErrOutOfBounds},
		{"too many layers", make1s(MaxTensorCount), ErrTooManyTensors},
		{"negative size", []int{2, -1}, ErrArchitectureMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Header{LayerSizes: tt.sizes, Activation: nn.ActivationSigmoid, OutputMode: nn.OutputSigmoid}
			if err := ValidateArchitecture(h, 1024); !errors.Is(err, tt.want) {
				t.Errorf("ValidateArchitecture(%d layers) = %v, want %v", len(tt.sizes), err, tt.want)
			}
		})
	}
}

func make1s(n int) []int {
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = 1
	}
	return sizes
}
