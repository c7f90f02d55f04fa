package train

import (
	"sync"
)

// DefaultHistorySize is the number of loss points a LossHistory keeps.
const DefaultHistorySize = 500

// LossHistory is a fixed-capacity ring of per-epoch losses. When full, each
// Add evicts the oldest point. It is safe for concurrent use, so a reader
// can poll it while a Trainer runs in another goroutine.
type LossHistory struct {
	mu     sync.RWMutex
	points []float64
	start  int
	n      int
}

// NewLossHistory creates a history holding up to capacity points.
// A non-positive capacity selects DefaultHistorySize.
func NewLossHistory(capacity int) *LossHistory {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &LossHistory{points: make([]float64, capacity)}
}

// Add appends a loss value.
func (h *LossHistory) Add(loss float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.n < len(h.points) {
		h.points[(h.start+h.n)%len(h.points)] = loss
		h.n++
		return
	}
	h.points[h.start] = loss
	h.start = (h.start + 1) % len(h.points)
}

// Points returns the stored losses, oldest first.
func (h *LossHistory) Points() []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]float64, h.n)
	for i := range out {
		out[i] = h.points[(h.start+i)%len(h.points)]
	}
	return out
}

// Last returns the newest loss. ok is false when the history is empty.
func (h *LossHistory) Last() (loss float64, ok bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.n == 0 {
		return 0, false
	}
	return h.points[(h.start+h.n-1)%len(h.points)], true
}

// Max returns the largest stored loss, or 0 when empty. Charts scale their
// y axis by it.
func (h *LossHistory) Max() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var m float64
	for i := 0; i < h.n; i++ {
		m = max(m, h.points[(h.start+i)%len(h.points)])
	}
	return m
}

// Len returns the number of stored points.
func (h *LossHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.n
}

// Cap returns the capacity.
func (h *LossHistory) Cap() int {
	return len(h.points)
}

// Reset discards every point.
func (h *LossHistory) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.start, h.n = 0, 0
}
