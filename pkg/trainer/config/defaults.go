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
	"github.com/go-logr/logr"

	envutil "github.com/kacperlukawski/lightning/pkg/util/env"
)

// Default configuration values
const (
	// DefaultMaxEpochs is the default bound on fit epochs.
	DefaultMaxEpochs = 1000
	// DefaultAccumulateGradBatches disables gradient accumulation.
	DefaultAccumulateGradBatches = 1
	// DefaultGradientClipVal disables gradient clipping.
	DefaultGradientClipVal = 0.0
)

// Environment variables consulted by NewConfigFromEnv.
const (
	AcceleratorEnvVar           = "LIGHTNING_ACCELERATOR"
	StrategyEnvVar              = "LIGHTNING_STRATEGY"
	MaxEpochsEnvVar             = "LIGHTNING_MAX_EPOCHS"
	GradientClipValEnvVar       = "LIGHTNING_GRADIENT_CLIP_VAL"
	AccumulateGradBatchesEnvVar = "LIGHTNING_ACCUMULATE_GRAD_BATCHES"
)

// NewConfig returns a Config populated with the package defaults: single
// device CPU execution, no clipping, no accumulation.
func NewConfig() *Config {
	return &Config{
		Accelerator:           AcceleratorCPU,
		Strategy:              StrategySingleDevice,
		MaxEpochs:             DefaultMaxEpochs,
		GradientClipVal:       DefaultGradientClipVal,
		AccumulateGradBatches: DefaultAccumulateGradBatches,
	}
}

// NewConfigFromEnv returns a Config populated from environment variables,
// falling back to the package defaults. Unparsable values fall back to the
// default and are logged.
func NewConfigFromEnv(logger logr.Logger) *Config {
	cfg := NewConfig()

	cfg.Accelerator = envutil.GetEnvParsed(AcceleratorEnvVar, cfg.Accelerator, ParseAccelerator, logger)
	cfg.Strategy = envutil.GetEnvParsed(StrategyEnvVar, cfg.Strategy, ParseStrategy, logger)
	cfg.MaxEpochs = envutil.GetEnvInt(MaxEpochsEnvVar, cfg.MaxEpochs, logger)
	cfg.GradientClipVal = envutil.GetEnvFloat(GradientClipValEnvVar, cfg.GradientClipVal, logger)
	cfg.AccumulateGradBatches = envutil.GetEnvInt(AccumulateGradBatchesEnvVar, cfg.AccumulateGradBatches, logger)

	return cfg
}
