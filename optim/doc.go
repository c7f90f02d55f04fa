// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/nnlab/nn"
//	    "github.com/born-ml/nnlab/optim"
//	)
//
//	func main() {
//	    net, _ := nn.New([]int{1, 8, 1}, nn.ActivationTanh, nn.OutputLinear)
//
//	    optimizer := optim.NewAdam(net.Parameters(), optim.AdamConfig{LR: 0.01})
//
//	    for range 500 {
//	        loss, err := net.TrainEpochWith(data, optimizer)
//	        ...
//	    }
//	}
//
// SGD without momentum performs exactly the update of
// (*nn.Network).UpdateWeights(lr, 1), so it reproduces TrainEpoch.
package optim
