package eval

import (
	"errors"
	"testing"

	"github.com/born-ml/nnlab/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// funcPredictor adapts a plain function to Predictor.
type funcPredictor func(in []float64) []float64

func (f funcPredictor) Forward(in []float64) ([]float64, error) {
	return f(in), nil
}

type failing struct{}

func (failing) Forward([]float64) ([]float64, error) {
	return nil, errors.New("boom")
}

func TestCorrect(t *testing.T) {
	assert.True(t, Correct([]float64{0.7}, []float64{1}))
	assert.True(t, Correct([]float64{0.2}, []float64{0}))
	assert.False(t, Correct([]float64{0.5}, []float64{1}), "0.5 is not above the threshold")
	assert.True(t, Correct([]float64{0.1, 0.7, 0.2}, []float64{0, 1, 0}))
	assert.False(t, Correct([]float64{0.6, 0.3, 0.1}, []float64{0, 1, 0}))
}

func TestAccuracy(t *testing.T) {
	// Predicts 1 when x > 0.
	p := funcPredictor(func(in []float64) []float64 {
		if in[0] > 0 {
			return []float64{0.9}
		}
		return []float64{0.1}
	})
	data := []nn.Sample{
		{Input: []float64{1}, Target: []float64{1}},
		{Input: []float64{-1}, Target: []float64{0}},
		{Input: []float64{2}, Target: []float64{0}},
		{Input: []float64{-2}, Target: []float64{0}},
	}
	acc, err := Accuracy(p, data)
	require.NoError(t, err)
	assert.Equal(t, 0.75, acc)

	_, err = Accuracy(p, nil)
	assert.ErrorIs(t, err, nn.ErrEmptyDataset)
	_, err = Accuracy(p, []nn.Sample{{Input: []float64{1}, Target: []float64{1, 0}}})
	assert.ErrorIs(t, err, nn.ErrShapeMismatch)
	_, err = Accuracy(failing{}, data)
	assert.Error(t, err)
}

func TestAccuracy_Network(t *testing.T) {
	net, err := nn.NewWithConfig(nn.Config{LayerSizes: []int{1, 2}, Output: nn.OutputSoftmax, Seed: 3})
	require.NoError(t, err)
	require.NoError(t, net.SetWeight(0, 0, 0, -5))
	require.NoError(t, net.SetWeight(0, 0, 1, 5))
	require.NoError(t, net.SetBias(1, 0, 0))
	require.NoError(t, net.SetBias(1, 1, 0))

	data := []nn.Sample{
		{Input: []float64{1}, Target: []float64{0, 1}},
		{Input: []float64{-1}, Target: []float64{1, 0}},
	}
	acc, err := Accuracy(net, data)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)

	_, err = Accuracy(net, []nn.Sample{{Input: []float64{1, 2}, Target: []float64{0, 1}}})
	assert.ErrorIs(t, err, nn.ErrShapeMismatch)
}

func TestMeanLoss(t *testing.T) {
	net, err := nn.NewWithConfig(nn.Config{LayerSizes: []int{1, 1}, Output: nn.OutputLinear, Seed: 3})
	require.NoError(t, err)
	require.NoError(t, net.SetWeight(0, 0, 0, 1))
	require.NoError(t, net.SetBias(1, 0, 0))
	before := net.StateDict()

	loss, err := MeanLoss(net, []nn.Sample{
		{Input: []float64{1}, Target: []float64{0}},
		{Input: []float64{2}, Target: []float64{2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, loss)
	assert.Equal(t, before, net.StateDict())
	assert.Zero(t, net.Epoch())

	_, err = MeanLoss(net, nil)
	assert.ErrorIs(t, err, nn.ErrEmptyDataset)
}

func TestDecisionGrid(t *testing.T) {
	// Output is x; rows follow y, columns follow x.
	p := funcPredictor(func(in []float64) []float64 { return []float64{in[0] + 10*in[1]} })
	grid, err := DecisionGrid(p, 4, -1, 1)
	require.NoError(t, err)

	r, c := grid.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 4, c)
	assert.InDelta(t, -1+10*-1, grid.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5+10*-1, grid.At(0, 3), 1e-12)
	assert.InDelta(t, -1+10*0.5, grid.At(3, 0), 1e-12)

	_, err = DecisionGrid(p, 0, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = DecisionGrid(p, 4, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = DecisionGrid(failing{}, 2, GridMin, GridMax)
	assert.Error(t, err)
}

func TestCurve(t *testing.T) {
	p := funcPredictor(func(in []float64) []float64 { return []float64{in[0] * in[0]} })
	xs, ys, err := Curve(p, 5, -1, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, xs)
	assert.Equal(t, []float64{1, 0.25, 0, 0.25, 1}, ys)

	xs, ys, err = Curve(p, 1, 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, xs)
	assert.Equal(t, []float64{0.25}, ys)

	_, _, err = Curve(p, 0, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, _, err = Curve(p, 3, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
