package nn

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// OutputMode selects how the output layer turns raw sums into values, and
// with that the loss and output gradient used in training.
//
//   - OutputSigmoid: standard sigmoid per neuron, MSE loss. The output layer
//     always uses the standard sigmoid, whatever the hidden activation is.
//   - OutputSoftmax: softmax across the layer, cross-entropy loss.
//   - OutputLinear: identity, MSE loss.
//
// The zero value is OutputSigmoid.
type OutputMode int

// Supported output modes.
const (
	OutputSigmoid OutputMode = iota
	OutputSoftmax
	OutputLinear
)

// outputFuncs bundles everything that varies with the output mode.
type outputFuncs struct {
	apply func(dst, raw []float64)
	delta func(grad, values, target []float64)
	loss  func(predicted, target []float64) float64
}

var outputTable = [...]outputFuncs{
	OutputSigmoid: {apply: applySigmoid, delta: sigmoidDelta, loss: MSE},
	OutputSoftmax: {apply: softmaxInto, delta: softmaxDelta, loss: CrossEntropy},
	OutputLinear:  {apply: applyIdentity, delta: linearDelta, loss: MSE},
}

var outputNames = [...]string{
	OutputSigmoid: "sigmoid",
	OutputSoftmax: "softmax",
	OutputLinear:  "linear",
}

// String returns the lower-case mode name.
func (m OutputMode) String() string {
	if !m.valid() {
		return fmt.Sprintf("OutputMode(%d)", int(m))
	}
	return outputNames[m]
}

func (m OutputMode) valid() bool {
	return m >= 0 && int(m) < len(outputTable)
}

func (m OutputMode) funcs() outputFuncs {
	return outputTable[m]
}

// ParseOutputMode converts a name such as "softmax" into an OutputMode.
func ParseOutputMode(name string) (OutputMode, error) {
	for i, n := range outputNames {
		if strings.EqualFold(n, name) {
			return OutputMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown output mode %q", ErrConfiguration, name)
}

// Softmax returns exp(v-max(v)) / Σexp(v-max(v)).
//
// The result has the same length as values and sums to 1. An empty input
// yields an empty result.
func Softmax(values []float64) []float64 {
	out := make([]float64, len(values))
	softmaxInto(out, values)
	return out
}

func softmaxInto(dst, raw []float64) {
	if len(raw) == 0 {
		return
	}
	peak := floats.Max(raw)
	for i, v := range raw {
		dst[i] = math.Exp(v - peak)
	}
	floats.Scale(1/floats.Sum(dst), dst)
}

func applySigmoid(dst, raw []float64) {
	for i, x := range raw {
		dst[i] = Sigmoid(x)
	}
}

func applyIdentity(dst, raw []float64) {
	copy(dst, raw)
}

// Softmax combined with cross-entropy collapses to value - target.
func softmaxDelta(grad, values, target []float64) {
	floats.SubTo(grad, values, target)
}

func linearDelta(grad, values, target []float64) {
	scale := 2 / float64(len(values))
	for j, v := range values {
		grad[j] = (v - target[j]) * scale
	}
}

func sigmoidDelta(grad, values, target []float64) {
	for j, v := range values {
		grad[j] = (v - target[j]) * SigmoidDerivative(v)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m OutputMode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: unknown output mode %d", ErrConfiguration, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *OutputMode) UnmarshalText(text []byte) error {
	v, err := ParseOutputMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
