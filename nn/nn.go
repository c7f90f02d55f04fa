// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/nnlab/internal/nn"
)

// Network is a dense feed-forward neural network.
type Network = nn.Network

// Config describes a network to build.
type Config = nn.Config

// Sample is one labelled training example.
type Sample = nn.Sample

// Stepper applies accumulated gradients to a network's parameters.
type Stepper = nn.Stepper

// Parameter is a named live view of one weight matrix or bias vector.
type Parameter = nn.Parameter

// Inspection

// Snapshot is a deep copy of a network's per-neuron state and weights.
type Snapshot = nn.Snapshot

// LayerSnapshot is one layer of a Snapshot.
type LayerSnapshot = nn.LayerSnapshot

// NeuronState is one neuron of a Snapshot.
type NeuronState = nn.NeuronState

// Activations

// Activation selects the hidden-layer nonlinearity.
type Activation = nn.Activation

// Hidden-layer activations.
const (
	ActivationSigmoid = nn.ActivationSigmoid
	ActivationReLU    = nn.ActivationReLU
	ActivationTanh    = nn.ActivationTanh
)

// ParseActivation parses "sigmoid", "relu" or "tanh" (case-insensitive).
func ParseActivation(s string) (Activation, error) {
	return nn.ParseActivation(s)
}

// Output modes

// OutputMode selects the output-layer transform and its loss.
type OutputMode = nn.OutputMode

// Output modes.
const (
	OutputSigmoid = nn.OutputSigmoid
	OutputSoftmax = nn.OutputSoftmax
	OutputLinear  = nn.OutputLinear
)

// ParseOutputMode parses "sigmoid", "softmax" or "linear" (case-insensitive).
func ParseOutputMode(s string) (OutputMode, error) {
	return nn.ParseOutputMode(s)
}

// Errors

// Errors returned by the engine.
var (
	ErrConfiguration = nn.ErrConfiguration
	ErrShapeMismatch = nn.ErrShapeMismatch
	ErrEmptyDataset  = nn.ErrEmptyDataset
)

// ShapeError reports a vector of the wrong length.
type ShapeError = nn.ShapeError

// Construction

// New creates a network with the given layer sizes, hidden activation and
// output mode.
//
// Example:
//
//	net, err := nn.New([]int{2, 6, 4, 1}, nn.ActivationSigmoid, nn.OutputSigmoid)
func New(layerSizes []int, hidden Activation, output OutputMode) (*Network, error) {
	return nn.New(layerSizes, hidden, output)
}

// NewWithConfig creates a network from cfg. A non-zero Config.Seed makes
// initialization and shuffling reproducible.
//
// Example:
//
//	net, err := nn.NewWithConfig(nn.Config{
//	    LayerSizes: []int{1, 8, 1},
//	    Hidden:     nn.ActivationTanh,
//	    Output:     nn.OutputLinear,
//	    Seed:       42,
//	})
func NewWithConfig(cfg Config) (*Network, error) {
	return nn.NewWithConfig(cfg)
}

// Functions

// Sigmoid computes 1/(1+e^-x), with x clamped to [-500, 500].
func Sigmoid(x float64) float64 { return nn.Sigmoid(x) }

// Softmax returns the numerically stable softmax of values.
func Softmax(values []float64) []float64 { return nn.Softmax(values) }

// MSE computes the mean squared error.
func MSE(predicted, target []float64) float64 { return nn.MSE(predicted, target) }

// CrossEntropy computes categorical cross-entropy with a 1e-8 floor.
func CrossEntropy(predicted, target []float64) float64 { return nn.CrossEntropy(predicted, target) }
