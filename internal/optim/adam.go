package optim

import (
	"fmt"
	"math"
	"slices"

	"github.com/born-ml/nnlab/internal/nn"
)

// Adam implements the Adam optimizer (Adaptive Moment Estimation).
//
// Update rule:
//
//	m = beta1 * m + (1 - beta1) * grad
//	v = beta2 * v + (1 - beta2) * grad²
//	m̂ = m / (1 - beta1^t)
//	v̂ = v / (1 - beta2^t)
//	param = param - lr * m̂ / (√v̂ + eps)
type Adam struct {
	params []*nn.Parameter
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int
	m      [][]float64 // First moment estimates, index-aligned with params
	v      [][]float64 // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer over params.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	a := &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make([][]float64, len(params)),
		v:      make([][]float64, len(params)),
	}
	for i, p := range params {
		a.m[i] = make([]float64, len(p.Data()))
		a.v[i] = make([]float64, len(p.Data()))
	}
	return a
}

// Step applies one bias-corrected Adam update and clears the gradients.
func (a *Adam) Step() {
	a.t++
	bc1 := 1 - math.Pow(a.beta1, float64(a.t))
	bc2 := 1 - math.Pow(a.beta2, float64(a.t))

	for i, p := range a.params {
		data, grad := p.Data(), p.Grad()
		m, v := a.m[i], a.v[i]
		for k, g := range grad {
			m[k] = a.beta1*m[k] + (1-a.beta1)*g
			v[k] = a.beta2*v[k] + (1-a.beta2)*g*g
			mHat := m[k] / bc1
			vHat := v[k] / bc2
			data[k] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
	zeroGrads(a.params)
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam) ZeroGrad() {
	zeroGrads(a.params)
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// StateDict exports the moment buffers as "m.{i}" and "v.{i}" and the
// timestep as the single-element "step".
func (a *Adam) StateDict() map[string][]float64 {
	state := make(map[string][]float64, 2*len(a.params)+1)
	for i := range a.params {
		state[fmt.Sprintf("m.%d", i)] = slices.Clone(a.m[i])
		state[fmt.Sprintf("v.%d", i)] = slices.Clone(a.v[i])
	}
	state["step"] = []float64{float64(a.t)}
	return state
}

// LoadStateDict restores buffers exported by StateDict.
func (a *Adam) LoadStateDict(state map[string][]float64) error {
	step, ok := state["step"]
	if !ok || len(step) != 1 {
		return fmt.Errorf("adam state: missing step")
	}

	m := make([][]float64, len(a.params))
	v := make([][]float64, len(a.params))
	for i, p := range a.params {
		for _, buf := range []struct {
			key string
			dst [][]float64
		}{{fmt.Sprintf("m.%d", i), m}, {fmt.Sprintf("v.%d", i), v}} {
			src, ok := state[buf.key]
			if !ok {
				return fmt.Errorf("adam state: missing %s", buf.key)
			}
			if len(src) != len(p.Data()) {
				return fmt.Errorf("adam state: %s length mismatch for %s: expected %d, got %d",
					buf.key, p.Name(), len(p.Data()), len(src))
			}
			buf.dst[i] = slices.Clone(src)
		}
	}

	a.m, a.v, a.t = m, v, int(step[0])
	return nil
}
