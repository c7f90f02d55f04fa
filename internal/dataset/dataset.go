// Package dataset generates the labelled sample sets used to train and
// demonstrate small feed-forward networks.
//
// Every generator draws its noise from an injected *rand.Rand, so a fixed
// source reproduces the same samples.
package dataset

import (
	"errors"
	"fmt"
	"slices"

	"github.com/born-ml/nnlab/internal/nn"
	"golang.org/x/exp/rand"
)

// ErrUnknownDataset is returned by Generate for a name with no generator.
var ErrUnknownDataset = errors.New("dataset: unknown dataset")

// Generator produces a fresh sample set.
type Generator func(r *rand.Rand) []nn.Sample

// Info describes a registered generator.
type Info struct {
	Name    string
	Inputs  int
	Outputs int
	Summary string
}

type entry struct {
	info Info
	gen  Generator
}

var registry = map[string]entry{
	"xor":       {Info{"xor", 2, 1, "XOR truth table, 25 noisy copies"}, XOR},
	"circle":    {Info{"circle", 2, 1, "200 points, 1 inside x²+y² < 0.5"}, Circle},
	"spiral":    {Info{"spiral", 2, 1, "two interleaved spirals, 100 points each"}, Spiral},
	"gaussian":  {Info{"gaussian", 2, 1, "two Gaussian blobs at ±0.4"}, Gaussian},
	"sine":      {Info{"sine", 1, 1, "sin(πx)·0.8 over [-1, 1]"}, func(*rand.Rand) []nn.Sample { return Sine() }},
	"quadratic": {Info{"quadratic", 1, 1, "1.5x² - 0.5 over [-1, 1]"}, func(*rand.Rand) []nn.Sample { return Quadratic() }},
	"step":      {Info{"step", 1, 1, "±0.6 step at x = 0"}, func(*rand.Rand) []nn.Sample { return Step() }},
}

// Names returns the registered dataset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the description of a registered dataset.
func Lookup(name string) (Info, error) {
	e, ok := registry[name]
	if !ok {
		return Info{}, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	return e.info, nil
}

// Generate runs the named generator with r.
func Generate(name string, r *rand.Rand) ([]nn.Sample, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	return e.gen(r), nil
}

// OneHot encodes label as a vector of length classes.
// It panics if label is outside [0, classes).
func OneHot(label, classes int) []float64 {
	if label < 0 || label >= classes {
		panic(fmt.Sprintf("dataset: label %d out of range [0, %d)", label, classes))
	}
	v := make([]float64, classes)
	v[label] = 1
	return v
}
