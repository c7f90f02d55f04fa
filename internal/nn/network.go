// Package nn implements the dense feed-forward network engine behind the
// nnlab visualizations.
//
// A Network is a fixed stack of fully connected layers trained one sample at
// a time with stochastic gradient descent:
//   - Forward: propagate an input and cache every neuron's raw sum and value
//   - Loss: MSE, or cross-entropy for softmax output
//   - Backward: compute δ for every neuron and accumulate weight/bias gradients
//   - UpdateWeights: apply and reset the accumulated gradients
//   - TrainEpoch: one shuffled pass over a dataset
//
// The cached per-neuron state is what visualizations read, through Snapshot
// and the accessor methods. A Network is not safe for concurrent use;
// separate Networks share nothing and may be trained in parallel.
package nn

import (
	"fmt"
	"slices"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// Config describes a network to build.
type Config struct {
	LayerSizes []int      // Neurons per layer, input first (len >= 2, all > 0)
	Hidden     Activation // Hidden-layer activation (default: sigmoid)
	Output     OutputMode // Output mode (default: sigmoid)
	Seed       uint64     // Random seed for init and shuffling (0: seeded from the clock)
}

// Validate reports whether the configuration describes a buildable network.
func (c Config) Validate() error {
	if len(c.LayerSizes) < 2 {
		return fmt.Errorf("%w: need at least 2 layers, got %d", ErrConfiguration, len(c.LayerSizes))
	}
	for i, size := range c.LayerSizes {
		if size <= 0 {
			return fmt.Errorf("%w: layer %d has size %d", ErrConfiguration, i, size)
		}
	}
	if !c.Hidden.valid() {
		return fmt.Errorf("%w: unknown activation %v", ErrConfiguration, c.Hidden)
	}
	if !c.Output.valid() {
		return fmt.Errorf("%w: unknown output mode %v", ErrConfiguration, c.Output)
	}
	return nil
}

// Network is a dense feed-forward neural network.
type Network struct {
	sizes      []int
	layers     []*layer
	activation Activation
	mode       OutputMode
	hidden     activationFuncs
	out        outputFuncs
	rng        *rand.Rand

	epoch     int
	totalLoss float64
}

// New creates a network with the given layer sizes, hidden activation and
// output mode, randomly initialized from a clock-seeded source.
//
// Example:
//
//	net, err := nn.New([]int{2, 6, 4, 1}, nn.ActivationSigmoid, nn.OutputSigmoid)
func New(layerSizes []int, hidden Activation, output OutputMode) (*Network, error) {
	return NewWithConfig(Config{LayerSizes: layerSizes, Hidden: hidden, Output: output})
}

// NewWithConfig creates a network from cfg.
//
// Weights are drawn uniformly from [-s, s) with s = sqrt(2/(fan_in+fan_out));
// biases from [-0.25, 0.25). Each network owns its random source.
func NewWithConfig(cfg Config) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := &Network{
		sizes:      slices.Clone(cfg.LayerSizes),
		layers:     make([]*layer, len(cfg.LayerSizes)),
		activation: cfg.Hidden,
		mode:       cfg.Output,
		hidden:     cfg.Hidden.funcs(),
		out:        cfg.Output.funcs(),
		rng:        newRand(cfg.Seed),
	}

	for l, size := range n.sizes {
		n.layers[l] = newLayer(size)
		n.layers[l].bias = initBias(n.rng, size)
	}
	for l := 0; l < len(n.layers)-1; l++ {
		n.layers[l].connect(initWeights(n.rng, n.sizes[l], n.sizes[l+1]))
	}

	return n, nil
}

func (n *Network) outputLayer() *layer {
	return n.layers[len(n.layers)-1]
}

// Forward propagates inputs through the network and returns a copy of the
// output layer's values.
//
// The input layer takes inputs verbatim, without activation. Every other
// neuron j computes raw = bias[j] + Σ_i prev.value[i]·prev.weights[i][j],
// then applies the hidden activation, or the output mode on the last layer.
// Every neuron's raw sum and value are left in place for inspection.
//
// inputs must match the input layer size; on mismatch the network is left
// untouched.
func (n *Network) Forward(inputs []float64) ([]float64, error) {
	in := n.layers[0]
	if err := checkLen("forward", in.Size(), inputs); err != nil {
		return nil, err
	}
	copy(in.values, inputs)
	copy(in.raw, inputs)

	last := len(n.layers) - 1
	for l := 1; l <= last; l++ {
		prev, curr := n.layers[l-1], n.layers[l]

		vec(curr.raw).MulVec(prev.weights.T(), vec(prev.values))
		floats.Add(curr.raw, curr.bias)

		if l == last {
			n.out.apply(curr.values, curr.raw)
			continue
		}
		for j, x := range curr.raw {
			curr.values[j] = n.hidden.fn(x)
		}
	}

	return n.Output(), nil
}

// Backward computes every non-input neuron's gradient for target, using the
// state cached by the preceding Forward call, and adds the resulting weight
// and bias gradients into the accumulators.
//
// Output gradients depend on the output mode:
//   - softmax: value - target
//   - linear: (value - target)·2/n
//   - sigmoid: (value - target)·value·(1-value)
//
// Hidden gradients are (Σ_j next.grad[j]·w[i][j])·act'(value[i]). Backward
// never changes values or raw sums.
func (n *Network) Backward(target []float64) error {
	out := n.outputLayer()
	if err := checkLen("backward", out.Size(), target); err != nil {
		return err
	}
	n.out.delta(out.grad, out.values, target)

	for l := len(n.layers) - 2; l >= 1; l-- {
		curr, next := n.layers[l], n.layers[l+1]
		vec(curr.grad).MulVec(curr.weights, vec(next.grad))
		for i, v := range curr.values {
			curr.grad[i] *= n.hidden.deriv(v)
		}
	}

	for l := 0; l < len(n.layers)-1; l++ {
		curr, next := n.layers[l], n.layers[l+1]
		curr.weightGrads.RankOne(curr.weightGrads, 1, vec(curr.values), vec(next.grad))
		floats.Add(next.biasGrad, next.grad)
	}
	return nil
}

// UpdateWeights applies w -= lr·(grad/batchSize) to every weight and bias
// and resets the accumulators to zero. A non-positive batchSize is treated
// as 1.
func (n *Network) UpdateWeights(lr, batchSize float64) {
	if batchSize <= 0 {
		batchSize = 1
	}
	step := -lr / batchSize
	for l := 0; l < len(n.layers)-1; l++ {
		curr, next := n.layers[l], n.layers[l+1]

		floats.AddScaled(curr.weights.RawMatrix().Data, step, curr.weightGrads.RawMatrix().Data)
		curr.weightGrads.Zero()

		floats.AddScaled(next.bias, step, next.biasGrad)
		clear(next.biasGrad)
	}
}

// ZeroGrad clears every weight and bias gradient accumulator.
func (n *Network) ZeroGrad() {
	for _, l := range n.layers {
		l.zeroGrad()
	}
}
