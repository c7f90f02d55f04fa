// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"path/filepath"
	"testing"

	"github.com/born-ml/nnlab/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicAPI_TrainSaveLoad(t *testing.T) {
	net, err := nn.NewWithConfig(nn.Config{LayerSizes: []int{2, 3, 1}, Hidden: nn.ActivationTanh, Seed: 1})
	require.NoError(t, err)

	data := []nn.Sample{
		{Input: []float64{0, 0}, Target: []float64{0}},
		{Input: []float64{1, 1}, Target: []float64{1}},
	}
	_, err = net.TrainEpoch(data, 0.5)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "net.nnlb")
	require.NoError(t, nn.Save(net, path, map[string]string{"note": "test"}))

	loaded, header, err := nn.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", header.Metadata["note"])
	assert.Equal(t, 1, loaded.Epoch())
	assert.Equal(t, net.StateDict(), loaded.StateDict())
}

func TestPublicAPI_Parse(t *testing.T) {
	a, err := nn.ParseActivation("ReLU")
	require.NoError(t, err)
	assert.Equal(t, nn.ActivationReLU, a)

	m, err := nn.ParseOutputMode("softmax")
	require.NoError(t, err)
	assert.Equal(t, nn.OutputSoftmax, m)

	_, err = nn.New([]int{3}, nn.ActivationSigmoid, nn.OutputSigmoid)
	assert.ErrorIs(t, err, nn.ErrConfiguration)
}

func TestPublicAPI_Functions(t *testing.T) {
	assert.Equal(t, 0.5, nn.Sigmoid(0))
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, nn.Softmax([]float64{3, 3}), 1e-15)
	assert.Equal(t, 1.0, nn.MSE([]float64{1, 0}, []float64{0, 1}))
	assert.InDelta(t, -0.0, nn.CrossEntropy([]float64{1}, []float64{1}), 1e-15)
}
