package nn

import (
	"fmt"
)

// Sample is one labelled training example.
type Sample struct {
	Input  []float64 `json:"input"`
	Target []float64 `json:"target"`
}

// Stepper applies accumulated gradients to a network's parameters.
// optim.SGD implements it.
type Stepper interface {
	Step()
}

// sgdStep is the plain per-sample update TrainEpoch uses.
type sgdStep struct {
	net *Network
	lr  float64
}

func (s sgdStep) Step() {
	s.net.UpdateWeights(s.lr, 1)
}

// TrainEpoch runs one pass of per-sample SGD over data in a fresh random
// order and returns the epoch's mean loss.
//
// For each sample the accumulators are zeroed, then Forward, Loss, Backward
// and UpdateWeights(lr, 1) run in turn. The reported loss is therefore a
// running "while learning" loss: each sample is scored with the weights as
// they stood just before that sample's update.
//
// On success Epoch increases by one and TotalLoss is set to the returned
// value. On error the epoch counter and TotalLoss are unchanged, but updates
// from samples already processed remain applied.
func (n *Network) TrainEpoch(data []Sample, lr float64) (float64, error) {
	return n.TrainEpochWith(data, sgdStep{net: n, lr: lr})
}

// TrainEpochWith is TrainEpoch with the weight update delegated to opt,
// which is called once per sample after Backward.
func (n *Network) TrainEpochWith(data []Sample, opt Stepper) (float64, error) {
	if len(data) == 0 {
		return 0, ErrEmptyDataset
	}

	var total float64
	for _, idx := range n.rng.Perm(len(data)) {
		s := data[idx]

		n.ZeroGrad()
		predicted, err := n.Forward(s.Input)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", idx, err)
		}
		loss, err := n.Loss(predicted, s.Target)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", idx, err)
		}
		total += loss
		if err := n.Backward(s.Target); err != nil {
			return 0, fmt.Errorf("sample %d: %w", idx, err)
		}
		opt.Step()
	}

	n.epoch++
	n.totalLoss = total / float64(len(data))
	return n.totalLoss, nil
}
