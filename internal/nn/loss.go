package nn

import (
	"math"
)

// crossEntropyFloor keeps log away from zero.
const crossEntropyFloor = 1e-8

// MSE computes Mean Squared Error.
//
// Loss = (1/n) Σ (predicted[i] - target[i])²
//
// Both slices must have the same length; MSE of empty slices is 0.
func MSE(predicted, target []float64) float64 {
	if len(predicted) == 0 {
		return 0
	}
	var sum float64
	for i, p := range predicted {
		d := p - target[i]
		sum += d * d
	}
	return sum / float64(len(predicted))
}

// CrossEntropy computes categorical cross-entropy.
//
// Loss = Σ -target[i] · ln(max(predicted[i], 1e-8))
//
// The epsilon floor means a zero probability produces a large but finite loss.
func CrossEntropy(predicted, target []float64) float64 {
	var sum float64
	for i, p := range predicted {
		sum -= target[i] * math.Log(math.Max(p, crossEntropyFloor))
	}
	return sum
}

// Loss scores predicted against target using the loss that belongs to the
// network's output mode: cross-entropy for softmax, MSE otherwise.
//
// Both slices must match the output layer size. Loss has no side effects.
func (n *Network) Loss(predicted, target []float64) (float64, error) {
	size := n.outputLayer().Size()
	if err := checkLen("loss predicted", size, predicted); err != nil {
		return 0, err
	}
	if err := checkLen("loss target", size, target); err != nil {
		return 0, err
	}
	return n.out.loss(predicted, target), nil
}
