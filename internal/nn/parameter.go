package nn

import (
	"fmt"
	"slices"
)

// Parameter is a trainable tensor of a Network: one layer's weight matrix or
// bias vector.
//
// Data and Grad are live views into the network's storage, laid out
// row-major. Writing through them changes the network; that is how
// optimizers apply updates.
//
// Naming scheme:
//
//	layer.{l}.weight  shape [size(l), size(l+1)], for l < last
//	layer.{l}.bias    shape [size(l)],            for l >= 1
type Parameter struct {
	name  string
	shape []int
	data  []float64
	grad  []float64
}

// Name returns the parameter name (e.g. "layer.0.weight").
func (p *Parameter) Name() string {
	return p.name
}

// Shape returns the parameter shape.
func (p *Parameter) Shape() []int {
	return slices.Clone(p.shape)
}

// Data returns the live parameter values.
func (p *Parameter) Data() []float64 {
	return p.data
}

// Grad returns the live gradient accumulator.
func (p *Parameter) Grad() []float64 {
	return p.grad
}

// ZeroGrad clears the gradient accumulator.
func (p *Parameter) ZeroGrad() {
	clear(p.grad)
}

// Parameters returns every trainable parameter in a stable order: for each
// layer l, its outgoing weights, then the biases of layer l+1.
func (n *Network) Parameters() []*Parameter {
	params := make([]*Parameter, 0, 2*(len(n.layers)-1))
	for l := 0; l < len(n.layers)-1; l++ {
		curr, next := n.layers[l], n.layers[l+1]
		params = append(params,
			&Parameter{
				name:  weightName(l),
				shape: []int{curr.Size(), next.Size()},
				data:  curr.weights.RawMatrix().Data,
				grad:  curr.weightGrads.RawMatrix().Data,
			},
			&Parameter{
				name:  biasName(l + 1),
				shape: []int{next.Size()},
				data:  next.bias,
				grad:  next.biasGrad,
			},
		)
	}
	return params
}

func weightName(l int) string {
	return fmt.Sprintf("layer.%d.weight", l)
}

func biasName(l int) string {
	return fmt.Sprintf("layer.%d.bias", l)
}

// StateDict returns a copy of every parameter, keyed by name.
func (n *Network) StateDict() map[string][]float64 {
	params := n.Parameters()
	state := make(map[string][]float64, len(params))
	for _, p := range params {
		state[p.name] = slices.Clone(p.data)
	}
	return state
}

// LoadStateDict overwrites the network's parameters with state and clears
// the gradient accumulators, which described the old weights.
//
// Every parameter must be present with the right length; nothing is
// modified unless the whole dictionary validates. Extra keys are rejected.
func (n *Network) LoadStateDict(state map[string][]float64) error {
	params := n.Parameters()
	if len(state) != len(params) {
		return fmt.Errorf("%w: state has %d tensors, network has %d", ErrShapeMismatch, len(state), len(params))
	}
	for _, p := range params {
		values, ok := state[p.name]
		if !ok {
			return fmt.Errorf("%w: missing tensor %q", ErrShapeMismatch, p.name)
		}
		if err := checkLen(p.name, len(p.data), values); err != nil {
			return err
		}
	}
	for _, p := range params {
		copy(p.data, state[p.name])
	}
	n.ZeroGrad()
	return nil
}
