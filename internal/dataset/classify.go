package dataset

import (
	"math"

	"github.com/born-ml/nnlab/internal/nn"
	"golang.org/x/exp/rand"
)

var xorRows = [4][3]float64{
	{0, 0, 0},
	{0, 1, 1},
	{1, 0, 1},
	{1, 1, 0},
}

// jitter returns a uniform value in [-width/2, width/2).
func jitter(r *rand.Rand, width float64) float64 {
	return (r.Float64() - 0.5) * width
}

// XOR returns 25 copies of the XOR truth table with ±0.05 input noise.
func XOR(r *rand.Rand) []nn.Sample {
	const copies = 25
	data := make([]nn.Sample, 0, copies*len(xorRows))
	for range copies {
		for _, row := range xorRows {
			data = append(data, nn.Sample{
				Input:  []float64{row[0] + jitter(r, 0.1), row[1] + jitter(r, 0.1)},
				Target: []float64{row[2]},
			})
		}
	}
	return data
}

// Circle returns 200 points uniform in [-1, 1]², labelled 1 when
// x² + y² < 0.5.
func Circle(r *rand.Rand) []nn.Sample {
	const n = 200
	data := make([]nn.Sample, n)
	for i := range data {
		x, y := r.Float64()*2-1, r.Float64()*2-1
		var label float64
		if x*x+y*y < 0.5 {
			label = 1
		}
		data[i] = nn.Sample{Input: []float64{x, y}, Target: []float64{label}}
	}
	return data
}

// Spiral returns two interleaved spiral arms of 100 points each. Class c
// is offset by c·π and the angle carries ±0.15 noise.
func Spiral(r *rand.Rand) []nn.Sample {
	const n = 100
	data := make([]nn.Sample, 0, 2*n)
	for c := range 2 {
		for i := range n {
			frac := float64(i) / n
			radius := frac * 0.8
			theta := frac*3*math.Pi + float64(c)*math.Pi + jitter(r, 0.3)
			data = append(data, nn.Sample{
				Input:  []float64{radius * math.Cos(theta), radius * math.Sin(theta)},
				Target: []float64{float64(c)},
			})
		}
	}
	return data
}

// Gaussian returns 100 points per class drawn from N(±0.4, 0.3²) on each
// axis. Class 1 sits at (+0.4, +0.4) and samples alternate between classes.
func Gaussian(r *rand.Rand) []nn.Sample {
	const n = 100
	data := make([]nn.Sample, 0, 2*n)
	for range n {
		data = append(data,
			nn.Sample{Input: []float64{r.NormFloat64()*0.3 + 0.4, r.NormFloat64()*0.3 + 0.4}, Target: []float64{1}},
			nn.Sample{Input: []float64{r.NormFloat64()*0.3 - 0.4, r.NormFloat64()*0.3 - 0.4}, Target: []float64{0}},
		)
	}
	return data
}
