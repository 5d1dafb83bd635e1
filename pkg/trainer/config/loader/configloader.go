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

// Package loader reads trainer configuration from YAML text and validates
// it. Unset fields keep the package defaults, so a config file only needs to
// name what it changes.
package loader

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"sigs.k8s.io/yaml"

	"github.com/kacperlukawski/lightning/pkg/trainer/config"
)

// rawConfig is the YAML shape of a trainer configuration. Pointer fields
// distinguish "unset" from zero values.
type rawConfig struct {
	Accelerator           *string  `json:"accelerator,omitempty"`
	Strategy              *string  `json:"strategy,omitempty"`
	MaxEpochs             *int     `json:"maxEpochs,omitempty"`
	GradientClipVal       *float64 `json:"gradientClipVal,omitempty"`
	AccumulateGradBatches *int     `json:"accumulateGradBatches,omitempty"`
}

// LoadConfig parses configBytes into a Config, applying defaults for unset
// fields and validating the result.
func LoadConfig(configBytes []byte, logger logr.Logger) (*config.Config, error) {
	raw := &rawConfig{}
	if err := yaml.UnmarshalStrict(configBytes, raw); err != nil {
		return nil, fmt.Errorf("failed to parse trainer configuration - %w", err)
	}

	cfg := config.NewConfig()

	if raw.Accelerator != nil {
		accelerator, err := config.ParseAccelerator(*raw.Accelerator)
		if err != nil {
			return nil, fmt.Errorf("invalid trainer configuration - %w", err)
		}
		cfg.Accelerator = accelerator
	}
	if raw.Strategy != nil {
		strategy, err := config.ParseStrategy(*raw.Strategy)
		if err != nil {
			return nil, fmt.Errorf("invalid trainer configuration - %w", err)
		}
		cfg.Strategy = strategy
	}
	if raw.MaxEpochs != nil {
		cfg.MaxEpochs = *raw.MaxEpochs
	}
	if raw.GradientClipVal != nil {
		cfg.GradientClipVal = *raw.GradientClipVal
	}
	if raw.AccumulateGradBatches != nil {
		cfg.AccumulateGradBatches = *raw.AccumulateGradBatches
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trainer configuration - %w", err)
	}

	logger.Info("Loaded trainer configuration", "accelerator", cfg.Accelerator.String(),
		"strategy", cfg.Strategy.String(), "maxEpochs", cfg.MaxEpochs,
		"gradientClipVal", cfg.GradientClipVal, "accumulateGradBatches", cfg.AccumulateGradBatches)

	return cfg, nil
}

// LoadConfigFile reads and parses the trainer configuration at path.
func LoadConfigFile(path string, logger logr.Logger) (*config.Config, error) {
	configBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trainer configuration file %s - %w", path, err)
	}
	return LoadConfig(configBytes, logger)
}
