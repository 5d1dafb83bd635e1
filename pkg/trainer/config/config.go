/*
Copyright 2026 The Lightning Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"fmt"

	"github.com/kacperlukawski/lightning/pkg/lightning"
)

// Config holds the run configuration validated before every run. It is
// read-only once the trainer is constructed.
type Config struct {
	// Accelerator selects the hardware family the run targets.
	Accelerator Accelerator
	// Strategy selects how execution is distributed.
	Strategy Strategy
	// MaxEpochs bounds the number of fit epochs.
	MaxEpochs int
	// GradientClipVal enables trainer-side gradient clipping when > 0.
	// Incompatible with manual optimization.
	GradientClipVal float64
	// AccumulateGradBatches batches gradient updates; 1 disables
	// accumulation. Incompatible with manual optimization when != 1.
	AccumulateGradBatches int
	// Callbacks are notified at run lifecycle points and take part in
	// setup-signature validation.
	Callbacks []lightning.Callback
}

// Validate checks the numeric ranges of the configuration. Hook-level
// validation happens per run in the validation package.
func (c *Config) Validate() error {
	if c.MaxEpochs < 0 {
		return fmt.Errorf("maxEpochs must be >= 0, got %d", c.MaxEpochs)
	}
	if c.GradientClipVal < 0 {
		return fmt.Errorf("gradientClipVal must be >= 0, got %v", c.GradientClipVal)
	}
	if c.AccumulateGradBatches < 1 {
		return fmt.Errorf("accumulateGradBatches must be >= 1, got %d", c.AccumulateGradBatches)
	}
	return nil
}
