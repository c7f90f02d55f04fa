package nn

import (
	"fmt"
	"slices"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// NeuronState is a read-only copy of one neuron.
type NeuronState struct {
	Value    float64 `json:"value"`
	RawValue float64 `json:"raw_value"`
	Bias     float64 `json:"bias"`
	Gradient float64 `json:"gradient"`
}

// LayerSnapshot is a read-only copy of one layer. Weights is nil for the
// output layer; otherwise Weights[i][j] connects neuron i here to neuron j
// of the next layer.
type LayerSnapshot struct {
	Neurons []NeuronState `json:"neurons"`
	Weights [][]float64   `json:"weights,omitempty"`
}

// Snapshot is a deep copy of the state a visualization draws from. Nothing
// in it aliases the network.
type Snapshot struct {
	Epoch     int             `json:"epoch"`
	TotalLoss float64         `json:"total_loss"`
	Hidden    Activation      `json:"hidden"`
	Output    OutputMode      `json:"output"`
	Layers    []LayerSnapshot `json:"layers"`
}

// Snapshot copies the network's current numeric state.
func (n *Network) Snapshot() Snapshot {
	s := Snapshot{
		Epoch:     n.epoch,
		TotalLoss: n.totalLoss,
		Hidden:    n.activation,
		Output:    n.mode,
		Layers:    make([]LayerSnapshot, len(n.layers)),
	}
	for l, ly := range n.layers {
		neurons := make([]NeuronState, ly.Size())
		for i := range neurons {
			neurons[i] = ly.neuron(i)
		}
		s.Layers[l].Neurons = neurons

		if ly.weights == nil {
			continue
		}
		rows, _ := ly.weights.Dims()
		s.Layers[l].Weights = make([][]float64, rows)
		for i := range rows {
			s.Layers[l].Weights[i] = mat.Row(nil, i, ly.weights)
		}
	}
	return s
}

func (l *layer) neuron(i int) NeuronState {
	return NeuronState{
		Value:    l.values[i],
		RawValue: l.raw[i],
		Bias:     l.bias[i],
		Gradient: l.grad[i],
	}
}

// Epoch returns the number of completed TrainEpoch calls.
func (n *Network) Epoch() int {
	return n.epoch
}

// TotalLoss returns the mean loss of the most recent epoch (0 before any).
func (n *Network) TotalLoss() float64 {
	return n.totalLoss
}

// LayerSizes returns a copy of the layer sizes.
func (n *Network) LayerSizes() []int {
	return slices.Clone(n.sizes)
}

// Activation returns the hidden activation.
func (n *Network) Activation() Activation {
	return n.activation
}

// OutputMode returns the output mode.
func (n *Network) OutputMode() OutputMode {
	return n.mode
}

// Output returns a copy of the output layer's values from the last Forward.
func (n *Network) Output() []float64 {
	return slices.Clone(n.outputLayer().values)
}

// Neuron returns a copy of neuron i of layer l.
func (n *Network) Neuron(l, i int) (NeuronState, error) {
	if l < 0 || l >= len(n.layers) {
		return NeuronState{}, indexError("layer", l, len(n.layers))
	}
	ly := n.layers[l]
	if i < 0 || i >= ly.Size() {
		return NeuronState{}, indexError("neuron", i, ly.Size())
	}
	return ly.neuron(i), nil
}

// Weight returns the weight from neuron i of layer l to neuron j of layer l+1.
func (n *Network) Weight(l, i, j int) (float64, error) {
	ly, err := n.weightLayer(l, i, j)
	if err != nil {
		return 0, err
	}
	return ly.weights.At(i, j), nil
}

// SetWeight pins the weight from neuron i of layer l to neuron j of layer l+1.
func (n *Network) SetWeight(l, i, j int, w float64) error {
	ly, err := n.weightLayer(l, i, j)
	if err != nil {
		return err
	}
	ly.weights.Set(i, j, w)
	return nil
}

// SetBias pins the bias of neuron j in layer l. Input-layer biases are
// never used but may be set.
func (n *Network) SetBias(l, j int, b float64) error {
	if l < 0 || l >= len(n.layers) {
		return indexError("layer", l, len(n.layers))
	}
	ly := n.layers[l]
	if j < 0 || j >= ly.Size() {
		return indexError("neuron", j, ly.Size())
	}
	ly.bias[j] = b
	return nil
}

func (n *Network) weightLayer(l, i, j int) (*layer, error) {
	if l < 0 || l >= len(n.layers)-1 {
		return nil, indexError("weight layer", l, len(n.layers)-1)
	}
	ly := n.layers[l]
	rows, cols := ly.weights.Dims()
	if i < 0 || i >= rows {
		return nil, indexError("source neuron", i, rows)
	}
	if j < 0 || j >= cols {
		return nil, indexError("target neuron", j, cols)
	}
	return ly, nil
}

// Clone returns an independent deep copy of the network, including its
// training counters. The copy gets its own random source, seeded from the
// original's, so the two shuffle differently from here on.
//
// Drawing that seed advances the original's source: cloning changes the
// order of the original's next epochs. For a seeded network the effect is
// deterministic.
func (n *Network) Clone() *Network {
	c := *n
	c.sizes = slices.Clone(n.sizes)
	c.layers = make([]*layer, len(n.layers))
	for l, ly := range n.layers {
		c.layers[l] = ly.clone()
	}
	c.rng = rand.New(rand.NewSource(n.rng.Uint64()))
	return &c
}

// RestoreProgress sets the epoch counter and last epoch loss, for networks
// rebuilt from a checkpoint.
func (n *Network) RestoreProgress(epoch int, totalLoss float64) error {
	if epoch < 0 {
		return fmt.Errorf("%w: negative epoch %d", ErrConfiguration, epoch)
	}
	n.epoch = epoch
	n.totalLoss = totalLoss
	return nil
}
