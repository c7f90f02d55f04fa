// Package eval measures trained networks: classification accuracy, decision
// surfaces over a 2-D input window, and 1-D regression curves.
package eval

import (
	"errors"
	"fmt"

	"github.com/born-ml/nnlab/internal/nn"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Default input window of the 2-D classification demos.
const (
	GridMin = -1.2
	GridMax = 1.2
)

// ErrInvalidRange is returned for an empty resolution or an inverted window.
var ErrInvalidRange = errors.New("eval: invalid range")

// Predictor is anything that maps an input vector to an output vector.
// *nn.Network satisfies it.
type Predictor interface {
	Forward(inputs []float64) ([]float64, error)
}

// Correct reports whether output classifies like target. A single output
// is thresholded at 0.5; several outputs compare argmax indices.
func Correct(output, target []float64) bool {
	if len(output) == 1 {
		return (output[0] > 0.5) == (target[0] > 0.5)
	}
	return floats.MaxIdx(output) == floats.MaxIdx(target)
}

// Accuracy returns the fraction of samples p classifies correctly.
func Accuracy(p Predictor, data []nn.Sample) (float64, error) {
	if len(data) == 0 {
		return 0, nn.ErrEmptyDataset
	}
	correct := 0
	for i, s := range data {
		out, err := p.Forward(s.Input)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		if len(s.Target) != len(out) {
			return 0, fmt.Errorf("sample %d: %w", i, &nn.ShapeError{Op: "accuracy", Want: len(out), Got: len(s.Target)})
		}
		if Correct(out, s.Target) {
			correct++
		}
	}
	return float64(correct) / float64(len(data)), nil
}

// MeanLoss evaluates net on data with its own output-mode loss, without
// touching gradients or weights.
func MeanLoss(net *nn.Network, data []nn.Sample) (float64, error) {
	if len(data) == 0 {
		return 0, nn.ErrEmptyDataset
	}
	var total float64
	for i, s := range data {
		out, err := net.Forward(s.Input)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		l, err := net.Loss(out, s.Target)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		total += l
	}
	return total / float64(len(data)), nil
}

func axis(res int, lo, hi float64) ([]float64, error) {
	if res < 1 || !(lo < hi) {
		return nil, fmt.Errorf("%w: res=%d lo=%g hi=%g", ErrInvalidRange, res, lo, hi)
	}
	xs := make([]float64, res)
	step := (hi - lo) / float64(res)
	for i := range xs {
		xs[i] = lo + float64(i)*step
	}
	return xs, nil
}

// DecisionGrid evaluates output[0] of a two-input predictor over a res×res
// grid covering [lo, hi)². Element (i, j) is the output at x = lo + j·step,
// y = lo + i·step with step = (hi-lo)/res.
func DecisionGrid(p Predictor, res int, lo, hi float64) (*mat.Dense, error) {
	coords, err := axis(res, lo, hi)
	if err != nil {
		return nil, err
	}
	grid := mat.NewDense(res, res, nil)
	in := make([]float64, 2)
	for i, y := range coords {
		for j, x := range coords {
			in[0], in[1] = x, y
			out, err := p.Forward(in)
			if err != nil {
				return nil, err
			}
			grid.Set(i, j, out[0])
		}
	}
	return grid, nil
}

// Curve evaluates output[0] of a one-input predictor at n evenly spaced
// points over [lo, hi]. Both endpoints are included when n > 1.
func Curve(p Predictor, n int, lo, hi float64) (xs, ys []float64, err error) {
	if n < 1 || !(lo < hi) {
		return nil, nil, fmt.Errorf("%w: n=%d lo=%g hi=%g", ErrInvalidRange, n, lo, hi)
	}
	xs = make([]float64, n)
	if n == 1 {
		xs[0] = lo
	} else {
		floats.Span(xs, lo, hi)
	}
	ys = make([]float64, n)
	for i, x := range xs {
		out, err := p.Forward([]float64{x})
		if err != nil {
			return nil, nil, err
		}
		ys[i] = out[0]
	}
	return xs, ys, nil
}
