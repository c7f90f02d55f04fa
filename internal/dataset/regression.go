package dataset

import (
	"math"

	"github.com/born-ml/nnlab/internal/nn"
)

// presetPoints is the number of samples in each regression preset.
const presetPoints = 30

// Point is an (x, y) pair with y in [-1, 1].
type Point struct {
	X, Y float64
}

// Points converts points into one-input samples. The target is y mapped
// from [-1, 1] into the [0, 1] range of a sigmoid output.
func Points(pts []Point) []nn.Sample {
	data := make([]nn.Sample, len(pts))
	for i, p := range pts {
		data[i] = nn.Sample{Input: []float64{p.X}, Target: []float64{(p.Y + 1) / 2}}
	}
	return data
}

// TargetToY maps a network output back onto the [-1, 1] y axis.
func TargetToY(v float64) float64 {
	return v*2 - 1
}

func preset(f func(x float64) float64) []Point {
	pts := make([]Point, presetPoints)
	for i := range pts {
		x := float64(i)/(presetPoints-1)*2 - 1
		pts[i] = Point{X: x, Y: f(x)}
	}
	return pts
}

// SinePoints returns 30 points of sin(πx)·0.8 over [-1, 1].
func SinePoints() []Point {
	return preset(func(x float64) float64 { return math.Sin(x*math.Pi) * 0.8 })
}

// QuadraticPoints returns 30 points of 1.5x² - 0.5 over [-1, 1].
func QuadraticPoints() []Point {
	return preset(func(x float64) float64 { return x*x*1.5 - 0.5 })
}

// StepPoints returns 30 points of a step from -0.6 to 0.6 at x = 0.
func StepPoints() []Point {
	return preset(func(x float64) float64 {
		if x > 0 {
			return 0.6
		}
		return -0.6
	})
}

// Sine is Points(SinePoints()).
func Sine() []nn.Sample { return Points(SinePoints()) }

// Quadratic is Points(QuadraticPoints()).
func Quadratic() []nn.Sample { return Points(QuadraticPoints()) }

// Step is Points(StepPoints()).
func Step() []nn.Sample { return Points(StepPoints()) }
