// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train runs multi-epoch training with cancellation, loss history
// and progress logging, evaluates the results, and trains independent
// networks in parallel.
//
// Example:
//
//	tr := train.New(net, train.Config{Epochs: 2000, LR: 0.5},
//	    train.OnEpoch(func(epoch int, loss float64) { ... }))
//	res, err := tr.Run(ctx, data)
//	acc, err := train.Accuracy(net, data)
package train

import (
	"context"

	"github.com/born-ml/nnlab/internal/eval"
	"github.com/born-ml/nnlab/internal/nn"
	"github.com/born-ml/nnlab/internal/parallel"
	"github.com/born-ml/nnlab/internal/train"
	"gonum.org/v1/gonum/mat"
)

// Trainer trains one network.
type Trainer = train.Trainer

// Config holds training-run parameters.
type Config = train.Config

// Result summarizes a Run.
type Result = train.Result

// Option configures a Trainer.
type Option = train.Option

// EpochFunc observes a finished epoch.
type EpochFunc = train.EpochFunc

// LossHistory is a fixed-capacity ring of per-epoch losses.
type LossHistory = train.LossHistory

// Job is one independent training run for RunAll.
type Job = train.Job

// JobResult pairs a job's Result with its error.
type JobResult = train.JobResult

// ParallelConfig controls how RunAll spreads jobs over goroutines.
type ParallelConfig = parallel.Config

// DefaultConfig returns the settings of the classification demos.
func DefaultConfig() Config { return train.DefaultConfig() }

// New creates a Trainer for net.
func New(net *nn.Network, cfg Config, opts ...Option) *Trainer { return train.New(net, cfg, opts...) }

// NewLossHistory creates a history holding up to capacity points.
func NewLossHistory(capacity int) *LossHistory { return train.NewLossHistory(capacity) }

// Options

// WithLogger sets the trainer's logger.
var WithLogger = train.WithLogger

// WithOptimizer replaces the default SGD optimizer.
var WithOptimizer = train.WithOptimizer

// OnEpoch registers a per-epoch callback.
var OnEpoch = train.OnEpoch

// Parallel training

// DefaultParallelConfig returns a config that runs one job per goroutine
// up to the CPU count.
func DefaultParallelConfig() ParallelConfig { return parallel.JobConfig() }

// RunAll trains every job's network concurrently.
func RunAll(ctx context.Context, jobs []Job, cfg ParallelConfig) ([]JobResult, error) {
	return train.RunAll(ctx, jobs, cfg)
}

// Evaluation

// Predictor is anything that maps an input vector to an output vector.
type Predictor = eval.Predictor

// Accuracy returns the fraction of samples p classifies correctly.
func Accuracy(p Predictor, data []nn.Sample) (float64, error) { return eval.Accuracy(p, data) }

// MeanLoss evaluates net on data without updating it.
func MeanLoss(net *nn.Network, data []nn.Sample) (float64, error) { return eval.MeanLoss(net, data) }

// DecisionGrid evaluates output[0] over a res×res grid on [lo, hi)².
func DecisionGrid(p Predictor, res int, lo, hi float64) (*mat.Dense, error) {
	return eval.DecisionGrid(p, res, lo, hi)
}

// Curve evaluates output[0] of a one-input predictor at n points on [lo, hi].
func Curve(p Predictor, n int, lo, hi float64) (xs, ys []float64, err error) {
	return eval.Curve(p, n, lo, hi)
}
