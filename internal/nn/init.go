package nn

import (
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// biasSpread is the width of the uniform bias initialization interval,
// centred on zero: biases start in [-0.25, 0.25).
const biasSpread = 0.5

var seedCounter atomic.Uint64

// newRand returns a private random source for one network. A zero seed
// draws one from the clock, mixed with a process-wide counter so networks
// built in the same instant still diverge.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) ^ (seedCounter.Add(1) * 0x9e3779b97f4a7c15)
	}
	return rand.New(rand.NewSource(seed))
}

// initWeights fills a fanIn×fanOut matrix with values drawn uniformly from
// [-scale, scale), scale = sqrt(2 / (fanIn + fanOut)).
func initWeights(r *rand.Rand, fanIn, fanOut int) *mat.Dense {
	scale := math.Sqrt(2.0 / float64(fanIn+fanOut))
	data := make([]float64, fanIn*fanOut)
	for i := range data {
		data[i] = (r.Float64()*2 - 1) * scale
	}
	return mat.NewDense(fanIn, fanOut, data)
}

func initBias(r *rand.Rand, n int) []float64 {
	bias := make([]float64, n)
	for i := range bias {
		bias[i] = (r.Float64() - 0.5) * biasSpread
	}
	return bias
}
