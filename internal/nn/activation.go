package nn

import (
	"fmt"
	"math"
	"strings"
)

// sigmoidClamp bounds the sigmoid input so exp never overflows.
const sigmoidClamp = 500

// reluLeak is the slope ReLU reports for non-positive outputs during
// backpropagation so that units never die permanently.
const reluLeak = 0.01

// Activation selects the function applied to hidden-layer neurons.
//
// The zero value is ActivationSigmoid.
type Activation int

// Supported hidden activations.
const (
	ActivationSigmoid Activation = iota
	ActivationReLU
	ActivationTanh
)

// activationFuncs pairs an activation with its derivative. The derivative
// is expressed in terms of the activation's output, not its input.
type activationFuncs struct {
	fn    func(x float64) float64
	deriv func(out float64) float64
}

var activationTable = [...]activationFuncs{
	ActivationSigmoid: {fn: Sigmoid, deriv: SigmoidDerivative},
	ActivationReLU:    {fn: ReLU, deriv: ReLUDerivative},
	ActivationTanh:    {fn: math.Tanh, deriv: TanhDerivative},
}

var activationNames = [...]string{
	ActivationSigmoid: "sigmoid",
	ActivationReLU:    "relu",
	ActivationTanh:    "tanh",
}

// String returns the lower-case activation name.
func (a Activation) String() string {
	if !a.valid() {
		return fmt.Sprintf("Activation(%d)", int(a))
	}
	return activationNames[a]
}

func (a Activation) valid() bool {
	return a >= 0 && int(a) < len(activationTable)
}

func (a Activation) funcs() activationFuncs {
	return activationTable[a]
}

// ParseActivation converts a name such as "relu" into an Activation.
// Matching is case-insensitive.
func ParseActivation(name string) (Activation, error) {
	for i, n := range activationNames {
		if strings.EqualFold(n, name) {
			return Activation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown activation %q", ErrConfiguration, name)
}

// Sigmoid computes 1/(1+e^-x) with x clamped to [-500, 500].
func Sigmoid(x float64) float64 {
	x = math.Max(-sigmoidClamp, math.Min(sigmoidClamp, x))
	return 1 / (1 + math.Exp(-x))
}

// SigmoidDerivative returns o(1-o) for a sigmoid output o.
func SigmoidDerivative(out float64) float64 {
	return out * (1 - out)
}

// ReLU computes max(0, x).
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

// ReLUDerivative returns 1 for positive outputs and a small leak otherwise.
func ReLUDerivative(out float64) float64 {
	if out > 0 {
		return 1
	}
	return reluLeak
}

// TanhDerivative returns 1-o² for a tanh output o.
func TanhDerivative(out float64) float64 {
	return 1 - out*out
}

// MarshalText implements encoding.TextMarshaler.
func (a Activation) MarshalText() ([]byte, error) {
	if !a.valid() {
		return nil, fmt.Errorf("%w: unknown activation %d", ErrConfiguration, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Activation) UnmarshalText(text []byte) error {
	v, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
