package optim

import (
	"fmt"
	"slices"

	"github.com/born-ml/nnlab/internal/nn"
	"gonum.org/v1/gonum/floats"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Without momentum one Step is exactly (*nn.Network).UpdateWeights(lr, 1).
type SGD struct {
	params     []*nn.Parameter
	lr         float64
	momentum   float64
	velocities [][]float64 // index-aligned with params, allocated lazily
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer over params.
//
// Example:
//
//	sgd := optim.NewSGD(net.Parameters(), optim.SGDConfig{
//	    LR:       0.1,
//	    Momentum: 0.9,
//	})
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make([][]float64, len(params)),
	}
}

// Step applies the accumulated gradients and clears them.
func (s *SGD) Step() {
	for i, p := range s.params {
		if s.momentum == 0 {
			floats.AddScaled(p.Data(), -s.lr, p.Grad())
			continue
		}

		v := s.velocities[i]
		if v == nil {
			v = make([]float64, len(p.Data()))
			s.velocities[i] = v
		}
		floats.Scale(s.momentum, v)
		floats.Add(v, p.Grad())
		floats.AddScaled(p.Data(), -s.lr, v)
	}
	zeroGrads(s.params)
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	zeroGrads(s.params)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// Momentum returns the momentum factor.
func (s *SGD) Momentum() float64 {
	return s.momentum
}

// StateDict returns the velocity buffers as "velocity.{param_index}".
// Without momentum, or before the first step, it is empty.
func (s *SGD) StateDict() map[string][]float64 {
	state := make(map[string][]float64)
	if s.momentum == 0 {
		return state
	}
	for i, v := range s.velocities {
		if v == nil {
			continue
		}
		state[fmt.Sprintf("velocity.%d", i)] = slices.Clone(v)
	}
	return state
}

// LoadStateDict restores velocity buffers. It is a no-op without momentum.
func (s *SGD) LoadStateDict(state map[string][]float64) error {
	if s.momentum == 0 {
		return nil
	}

	velocities := make([][]float64, len(s.params))
	for i, p := range s.params {
		v, ok := state[fmt.Sprintf("velocity.%d", i)]
		if !ok {
			continue
		}
		if len(v) != len(p.Data()) {
			return fmt.Errorf("velocity length mismatch for parameter %d (%s): expected %d, got %d",
				i, p.Name(), len(p.Data()), len(v))
		}
		velocities[i] = slices.Clone(v)
	}
	s.velocities = velocities
	return nil
}
