// Package optim implements optimization algorithms for training nnlab
// networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers work on the live parameter views returned by
// (*nn.Network).Parameters and satisfy nn.Stepper, so they can drive an
// epoch directly:
//
//	net, _ := nn.New([]int{2, 6, 4, 1}, nn.ActivationSigmoid, nn.OutputSigmoid)
//	opt := optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: 0.5, Momentum: 0.9})
//
//	for range epochs {
//	    loss, err := net.TrainEpochWith(data, opt)
//	    ...
//	}
package optim

import (
	"github.com/born-ml/nnlab/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply accumulated gradients to parameters, then clear them
//   - ZeroGrad: Clear gradients without updating
//   - GetLR / SetLR: Learning rate access for monitoring and scheduling
type Optimizer interface {
	nn.Stepper

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR replaces the learning rate.
	SetLR(lr float64)

	// StateDict exports internal buffers, keyed by name, for checkpoints.
	StateDict() map[string][]float64

	// LoadStateDict restores buffers exported by StateDict.
	LoadStateDict(state map[string][]float64) error
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

func zeroGrads(params []*nn.Parameter) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
