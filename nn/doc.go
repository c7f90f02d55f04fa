// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the dense feed-forward network engine.
//
// # Overview
//
// This package contains:
//   - Network: a fixed stack of fully connected layers
//   - Activations: Sigmoid, ReLU (leaky gradient), Tanh
//   - Output modes: sigmoid + MSE, softmax + cross-entropy, linear + MSE
//   - Training: per-sample SGD epochs, or any Stepper such as optim.SGD
//   - Inspection: Snapshot, Neuron, Weight and the other accessors
//   - Persistence: Save and Load in the .nnlb checkpoint format
//
// # Basic Usage
//
//	import "github.com/born-ml/nnlab/nn"
//
//	func main() {
//	    net, err := nn.New([]int{2, 6, 4, 1}, nn.ActivationSigmoid, nn.OutputSigmoid)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    for range 1000 {
//	        if _, err := net.TrainEpoch(data, 0.5); err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//
//	    out, _ := net.Forward([]float64{1, 0})
//	    fmt.Printf("epoch %d, loss %.4f, out %.3f\n", net.Epoch(), net.TotalLoss(), out[0])
//	}
//
// # Gradients
//
// Backward stores δ = dLoss/draw for every neuron and accumulates weight
// and bias gradients until UpdateWeights (or an optimizer Step) applies
// them. For softmax and linear output δ is the exact loss gradient. For
// sigmoid output it is (value-target)·value·(1-value), the gradient of half
// the squared error; a learning rate tuned for this mode already absorbs
// the factor of 2.
//
// # Concurrency
//
// A Network is not safe for concurrent use. Separate networks share no
// state and may be trained in parallel; see the train package.
package nn
