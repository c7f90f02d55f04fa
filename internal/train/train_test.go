package train

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/born-ml/nnlab/internal/nn"
	"github.com/born-ml/nnlab/internal/optim"
	"github.com/born-ml/nnlab/internal/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var xor = []nn.Sample{
	{Input: []float64{0, 0}, Target: []float64{0}},
	{Input: []float64{0, 1}, Target: []float64{1}},
	{Input: []float64{1, 0}, Target: []float64{1}},
	{Input: []float64{1, 1}, Target: []float64{0}},
}

func newNet(t *testing.T, seed uint64) *nn.Network {
	t.Helper()
	net, err := nn.NewWithConfig(nn.Config{LayerSizes: []int{2, 4, 1}, Hidden: nn.ActivationTanh, Seed: seed})
	require.NoError(t, err)
	return net
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestConfig_Defaults(t *testing.T) {
	tr := New(newNet(t, 1), Config{}, WithLogger(discard()))
	assert.Equal(t, DefaultConfig(), tr.Config())
	assert.Equal(t, 0.5, tr.Optimizer().GetLR())
	assert.Equal(t, DefaultHistorySize, tr.History().Cap())

	tr = New(newNet(t, 1), Config{Epochs: 3, LR: 0.1, LogEvery: -1, HistorySize: 2})
	assert.Equal(t, 3, tr.Config().Epochs)
	assert.Equal(t, -1, tr.Config().LogEvery)
	assert.Equal(t, 2, tr.History().Cap())
}

func TestRun_MatchesTrainEpoch(t *testing.T) {
	trained := newNet(t, 7)
	manual := newNet(t, 7)

	var seen []int
	tr := New(trained, Config{Epochs: 5, LR: 0.3}, WithLogger(discard()), OnEpoch(func(epoch int, loss float64) {
		seen = append(seen, epoch)
	}))
	res, err := tr.Run(context.Background(), xor)
	require.NoError(t, err)

	var losses []float64
	for range 5 {
		loss, err := manual.TrainEpoch(xor, 0.3)
		require.NoError(t, err)
		losses = append(losses, loss)
	}

	assert.Equal(t, 5, res.Epochs)
	assert.False(t, res.Stopped)
	assert.False(t, res.Converged)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)
	assert.Equal(t, 5, trained.Epoch())
	assert.InDeltaSlice(t, losses, tr.History().Points(), 1e-12)
	assert.InDelta(t, losses[4], res.Loss, 1e-12)

	want := manual.StateDict()
	for name, got := range trained.StateDict() {
		assert.InDeltaSlice(t, want[name], got, 1e-12, name)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	net := newNet(t, 2)
	res, err := New(net, Config{Epochs: 10}, WithLogger(discard())).Run(ctx, xor)
	require.NoError(t, err)
	assert.True(t, res.Stopped)
	assert.Zero(t, res.Epochs)
	assert.Zero(t, net.Epoch())

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	tr := New(net, Config{Epochs: 10}, WithLogger(discard()), OnEpoch(func(epoch int, _ float64) {
		if epoch == 3 {
			cancel()
		}
	}))
	res, err = tr.Run(ctx, xor)
	require.NoError(t, err)
	assert.True(t, res.Stopped)
	assert.Equal(t, 3, res.Epochs)
	assert.Equal(t, 3, net.Epoch())
}

func TestRun_TargetLoss(t *testing.T) {
	net := newNet(t, 3)
	res, err := New(net, Config{Epochs: 100, TargetLoss: 10}, WithLogger(discard())).Run(context.Background(), xor)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Epochs, "every MSE on [0,1] targets is below 10")
}

func TestRun_Errors(t *testing.T) {
	net := newNet(t, 4)
	tr := New(net, Config{Epochs: 3}, WithLogger(discard()))

	_, err := tr.Run(context.Background(), nil)
	assert.ErrorIs(t, err, nn.ErrEmptyDataset)

	bad := []nn.Sample{{Input: []float64{1}, Target: []float64{0}}}
	res, err := tr.Run(context.Background(), bad)
	assert.ErrorIs(t, err, nn.ErrShapeMismatch)
	assert.Contains(t, err.Error(), "epoch 1")
	assert.Zero(t, res.Epochs)
}

func TestRun_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(newNet(t, 5), Config{Epochs: 4, LogEvery: 2}, WithLogger(logger)).Run(context.Background(), xor)
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "training epoch finished"))
	assert.Contains(t, out, "epoch=2")
	assert.Contains(t, out, "epoch=4")
	assert.Contains(t, out, "msg=\"training finished\" epochs=4")
}

func TestRun_WithOptimizer(t *testing.T) {
	net := newNet(t, 6)
	adam := optim.NewAdam(net.Parameters(), optim.AdamConfig{LR: 0.05})
	tr := New(net, Config{Epochs: 50}, WithLogger(discard()), WithOptimizer(adam))
	assert.Same(t, adam, tr.Optimizer())

	res, err := tr.Run(context.Background(), xor)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Epochs)
	assert.Equal(t, []float64{float64(50 * len(xor))}, adam.StateDict()["step"])
}

func TestRunAll(t *testing.T) {
	jobs := []Job{
		{Name: "a", Net: newNet(t, 11), Data: xor, Config: Config{Epochs: 20}},
		{Name: "bad", Net: newNet(t, 12), Data: []nn.Sample{{Input: []float64{1, 2, 3}, Target: []float64{1}}}},
		{Name: "c", Net: newNet(t, 13), Data: xor, Config: Config{Epochs: 30}},
	}
	for i := range jobs {
		jobs[i].Options = []Option{WithLogger(discard())}
	}

	cfg := parallel.JobConfig()
	cfg.Enabled, cfg.NumWorkers = true, 3
	results, err := RunAll(context.Background(), jobs, cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, nn.ErrShapeMismatch)
	assert.Contains(t, err.Error(), `job "bad"`)

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Name)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 20, results[0].Epochs)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 30, jobs[2].Net.Epoch())
}

func TestRunAll_MatchesSequential(t *testing.T) {
	run := func(cfg parallel.Config) []JobResult {
		jobs := make([]Job, 4)
		for i := range jobs {
			jobs[i] = Job{
				Name:    string(rune('a' + i)),
				Net:     newNet(t, uint64(20+i)),
				Data:    xor,
				Config:  Config{Epochs: 25},
				Options: []Option{WithLogger(discard())},
			}
		}
		results, err := RunAll(context.Background(), jobs, cfg)
		require.NoError(t, err)
		return results
	}

	seq := run(parallel.Config{Enabled: false})
	par := run(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})
	for i := range seq {
		assert.Equal(t, seq[i].Loss, par[i].Loss, seq[i].Name)
	}
}
