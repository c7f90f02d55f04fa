// Package train drives nn.Network training over many epochs: it runs the
// epoch loop under a context, records the loss history, reports progress
// through a callback and structured logs, and can train several
// independent networks in parallel.
package train

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/born-ml/nnlab/internal/nn"
	"github.com/born-ml/nnlab/internal/optim"
)

// Config holds training-run parameters.
type Config struct {
	Epochs      int     // Epochs to run (default: 1000)
	LR          float64 // Learning rate (default: 0.5)
	Momentum    float64 // SGD momentum (default: 0, plain per-sample SGD)
	TargetLoss  float64 // Stop once the epoch loss falls below this (0: never)
	LogEvery    int     // Debug-log every N epochs (default: 100, negative: never)
	HistorySize int     // Loss points kept (default: 500)
}

// DefaultConfig returns the settings of the classification demos.
func DefaultConfig() Config {
	return Config{
		Epochs:      1000,
		LR:          0.5,
		LogEvery:    100,
		HistorySize: DefaultHistorySize,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Epochs == 0 {
		c.Epochs = d.Epochs
	}
	if c.LR == 0 {
		c.LR = d.LR
	}
	if c.LogEvery == 0 {
		c.LogEvery = d.LogEvery
	}
	if c.HistorySize == 0 {
		c.HistorySize = d.HistorySize
	}
	return c
}

// EpochFunc observes a finished epoch. epoch is the network's total epoch
// count, loss its running loss for that epoch.
type EpochFunc func(epoch int, loss float64)

// Result summarizes a Run.
type Result struct {
	Epochs    int           // Epochs completed by this run
	Loss      float64       // Loss of the last completed epoch
	Stopped   bool          // The context ended the run early
	Converged bool          // The loss fell below Config.TargetLoss
	Duration  time.Duration // Wall time of the run
}

// Trainer trains one network. It is not safe for concurrent use, but its
// History may be read from other goroutines while Run is in progress.
type Trainer struct {
	net     *nn.Network
	cfg     Config
	opt     optim.Optimizer
	history *LossHistory
	logger  *slog.Logger
	onEpoch EpochFunc
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(t *Trainer) { t.logger = l }
}

// WithOptimizer replaces the SGD optimizer built from Config.LR and
// Config.Momentum. opt must have been created over net.Parameters().
func WithOptimizer(opt optim.Optimizer) Option {
	return func(t *Trainer) { t.opt = opt }
}

// OnEpoch registers a callback invoked after every epoch.
func OnEpoch(fn EpochFunc) Option {
	return func(t *Trainer) { t.onEpoch = fn }
}

// New creates a Trainer for net.
//
// Example:
//
//	tr := train.New(net, train.Config{Epochs: 500, LR: 0.5})
//	res, err := tr.Run(ctx, data)
func New(net *nn.Network, cfg Config, opts ...Option) *Trainer {
	cfg = cfg.withDefaults()
	t := &Trainer{
		net:     net,
		cfg:     cfg,
		history: NewLossHistory(cfg.HistorySize),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.opt == nil {
		t.opt = optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum})
	}
	return t
}

// Network returns the network being trained.
func (t *Trainer) Network() *nn.Network { return t.net }

// Config returns the effective configuration, defaults applied.
func (t *Trainer) Config() Config { return t.cfg }

// Optimizer returns the optimizer applying the updates.
func (t *Trainer) Optimizer() optim.Optimizer { return t.opt }

// History returns the loss history. It survives across Runs.
func (t *Trainer) History() *LossHistory { return t.history }

// Run trains for up to Config.Epochs epochs over data. The context is
// checked between epochs; cancellation is not an error and is reported as
// Result.Stopped. An epoch error aborts the run and is returned together
// with the progress made so far.
func (t *Trainer) Run(ctx context.Context, data []nn.Sample) (Result, error) {
	var res Result
	start := time.Now()

	if len(data) == 0 {
		return res, nn.ErrEmptyDataset
	}

	for res.Epochs < t.cfg.Epochs {
		if ctx.Err() != nil {
			res.Stopped = true
			break
		}

		loss, err := t.net.TrainEpochWith(data, t.opt)
		if err != nil {
			res.Duration = time.Since(start)
			return res, fmt.Errorf("epoch %d: %w", t.net.Epoch()+1, err)
		}
		res.Epochs++
		res.Loss = loss
		t.history.Add(loss)

		epoch := t.net.Epoch()
		if t.onEpoch != nil {
			t.onEpoch(epoch, loss)
		}
		if t.cfg.LogEvery > 0 && epoch%t.cfg.LogEvery == 0 {
			t.logger.Debug("training epoch finished", "epoch", epoch, "loss", loss)
		}
		if t.cfg.TargetLoss > 0 && loss < t.cfg.TargetLoss {
			res.Converged = true
			break
		}
	}

	res.Duration = time.Since(start)
	t.logger.Info("training finished",
		"epochs", res.Epochs,
		"total_epochs", t.net.Epoch(),
		"loss", res.Loss,
		"stopped", res.Stopped,
		"converged", res.Converged,
		"elapsed", res.Duration,
	)
	return res, nil
}
