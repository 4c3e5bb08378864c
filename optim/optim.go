// Copyright 2025 tf-models Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the public API for optimizers and learning
// rate schedules.
package optim

import (
	"github.com/ab-obi/tf-models/internal/nn"
	"github.com/ab-obi/tf-models/internal/optim"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with optional momentum.
type SGD[B tensor.Backend] = optim.SGD[B]

// SGDConfig configures SGD.
type SGDConfig = optim.SGDConfig

// NewSGD creates an SGD optimizer over params.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig, backend B) *SGD[B] {
	return optim.NewSGD(params, config, backend)
}

// Adam is the adaptive moment estimation optimizer.
type Adam[B tensor.Backend] = optim.Adam[B]

// AdamConfig configures Adam.
type AdamConfig = optim.AdamConfig

// NewAdam creates an Adam optimizer over params.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig, backend B) *Adam[B] {
	return optim.NewAdam(params, config, backend)
}

// Schedules

// Schedule computes the learning rate for a given epoch.
type Schedule = optim.Schedule

// NewConstant creates a fixed-rate schedule.
func NewConstant(rate float32) Schedule {
	return optim.NewConstant(rate)
}

// NewStepDecay multiplies the rate by factor every `every` epochs.
func NewStepDecay(initial, factor float32, every int) Schedule {
	return optim.NewStepDecay(initial, factor, every)
}

// NewExponentialDecay decays the rate by a fixed factor per epoch.
func NewExponentialDecay(initial, decay float32) Schedule {
	return optim.NewExponentialDecay(initial, decay)
}
