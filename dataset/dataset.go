// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset generates labelled sample sets for training networks:
// the 2-D classification sets xor, circle, spiral and gaussian, the 1-D
// regression presets sine, quadratic and step, and color palettes.
//
// Example:
//
//	r := rand.New(rand.NewSource(1))
//	data, err := dataset.Generate("spiral", r)
package dataset

import (
	"github.com/born-ml/nnlab/internal/dataset"
	"github.com/born-ml/nnlab/internal/nn"
	"golang.org/x/exp/rand"
)

// Generator produces a fresh sample set.
type Generator = dataset.Generator

// Info describes a registered generator.
type Info = dataset.Info

// Point is an (x, y) regression point with y in [-1, 1].
type Point = dataset.Point

// Errors returned by this package.
var (
	ErrUnknownDataset = dataset.ErrUnknownDataset
	ErrInvalidColor   = dataset.ErrInvalidColor
)

// Names returns the registered dataset names in sorted order.
func Names() []string { return dataset.Names() }

// Lookup returns the description of a registered dataset.
func Lookup(name string) (Info, error) { return dataset.Lookup(name) }

// Generate runs the named generator with r.
func Generate(name string, r *rand.Rand) ([]nn.Sample, error) { return dataset.Generate(name, r) }

// XOR returns 25 noisy copies of the XOR truth table.
func XOR(r *rand.Rand) []nn.Sample { return dataset.XOR(r) }

// Circle returns 200 points labelled 1 inside x²+y² < 0.5.
func Circle(r *rand.Rand) []nn.Sample { return dataset.Circle(r) }

// Spiral returns two interleaved spirals of 100 points each.
func Spiral(r *rand.Rand) []nn.Sample { return dataset.Spiral(r) }

// Gaussian returns two Gaussian blobs of 100 points each.
func Gaussian(r *rand.Rand) []nn.Sample { return dataset.Gaussian(r) }

// Points converts regression points into samples with targets in [0, 1].
func Points(pts []Point) []nn.Sample { return dataset.Points(pts) }

// TargetToY maps a network output back onto the [-1, 1] y axis.
func TargetToY(v float64) float64 { return dataset.TargetToY(v) }

// Sine returns the sine regression preset.
func Sine() []nn.Sample { return dataset.Sine() }

// Quadratic returns the quadratic regression preset.
func Quadratic() []nn.Sample { return dataset.Quadratic() }

// Step returns the step regression preset.
func Step() []nn.Sample { return dataset.Step() }

// Colors maps palette positions in [0, 1] to RGB targets.
func Colors(hexes ...string) ([]nn.Sample, error) { return dataset.Colors(hexes...) }

// OneHot encodes label as a vector of length classes.
func OneHot(label, classes int) []float64 { return dataset.OneHot(label, classes) }
