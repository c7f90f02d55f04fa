package train

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/born-ml/nnlab/internal/nn"
	"github.com/born-ml/nnlab/internal/parallel"
)

// Job is one independent training run for RunAll.
type Job struct {
	Name    string
	Net     *nn.Network
	Data    []nn.Sample
	Config  Config
	Options []Option
}

// JobResult pairs a job's Result with its error.
type JobResult struct {
	Name string
	Result
	Err error
}

// RunAll trains every job's network, spreading jobs over goroutines per
// cfg. Jobs must not share a Network. Each job logs through the default
// logger tagged with its name, unless its Options supply another logger.
//
// The returned slice is index-aligned with jobs. The error joins every
// failed job's error.
func RunAll(ctx context.Context, jobs []Job, cfg parallel.Config) ([]JobResult, error) {
	results := make([]JobResult, len(jobs))
	err := parallel.ForErr(len(jobs), func(i int) error {
		job := jobs[i]
		opts := append([]Option{WithLogger(slog.Default().With("job", job.Name))}, job.Options...)
		res, err := New(job.Net, job.Config, opts...).Run(ctx, job.Data)
		if err != nil {
			err = fmt.Errorf("job %q: %w", job.Name, err)
		}
		results[i] = JobResult{Name: job.Name, Result: res, Err: err}
		return err
	}, cfg)
	return results, err
}
