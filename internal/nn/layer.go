package nn

import (
	"gonum.org/v1/gonum/mat"
)

// layer holds the neurons of one network layer as parallel, index-aligned
// slices. Neuron i of the layer is the i-th element of every slice.
//
// weights[i][j] connects neuron i of this layer to neuron j of the next one.
// weights and weightGrads are nil for the output layer.
type layer struct {
	values   []float64 // post-activation output
	raw      []float64 // pre-activation weighted sum
	bias     []float64
	grad     []float64 // δ: dLoss/d(raw)
	biasGrad []float64

	weights     *mat.Dense
	weightGrads *mat.Dense
}

func newLayer(size int) *layer {
	return &layer{
		values:   make([]float64, size),
		raw:      make([]float64, size),
		bias:     make([]float64, size),
		grad:     make([]float64, size),
		biasGrad: make([]float64, size),
	}
}

// Size returns the number of neurons.
func (l *layer) Size() int {
	return len(l.values)
}

func (l *layer) connect(weights *mat.Dense) {
	r, c := weights.Dims()
	l.weights = weights
	l.weightGrads = mat.NewDense(r, c, nil)
}

func (l *layer) zeroGrad() {
	clear(l.biasGrad)
	if l.weightGrads != nil {
		l.weightGrads.Zero()
	}
}

func (l *layer) clone() *layer {
	c := &layer{
		values:   append([]float64(nil), l.values...),
		raw:      append([]float64(nil), l.raw...),
		bias:     append([]float64(nil), l.bias...),
		grad:     append([]float64(nil), l.grad...),
		biasGrad: append([]float64(nil), l.biasGrad...),
	}
	if l.weights != nil {
		c.weights = mat.DenseCopyOf(l.weights)
		c.weightGrads = mat.DenseCopyOf(l.weightGrads)
	}
	return c
}

func vec(data []float64) *mat.VecDense {
	return mat.NewVecDense(len(data), data)
}
