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

package trainer

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"

	"github.com/kacperlukawski/lightning/pkg/trainer/config"
	"github.com/kacperlukawski/lightning/pkg/trainer/config/loader"
	logutil "github.com/kacperlukawski/lightning/pkg/util/logging"
)

// Options contains the command-line configuration for a trainer run.
// Precedence, lowest to highest: package defaults, environment variables,
// config file, explicitly set flags.
type Options struct {
	ConfigFile            string  // Path to a YAML trainer configuration.
	Accelerator           string  // Accelerator name (cpu, gpu, ipu).
	Strategy              string  // Strategy name (single_device, ddp, dp, deepspeed).
	MaxEpochs             int     // Bound on fit epochs.
	GradientClipVal       float64 // Gradient clipping value; 0 disables.
	AccumulateGradBatches int     // Gradient accumulation; 1 disables.
	LogVerbosity          int     // Number for the log level verbosity.

	// internal
	fs *pflag.FlagSet // FlagSet used in AddFlags() and consulted in Complete()
}

// NewOptions returns a new Options struct initialized with default values.
func NewOptions() *Options {
	cfg := config.NewConfig()
	return &Options{
		Accelerator:           cfg.Accelerator.String(),
		Strategy:              cfg.Strategy.String(),
		MaxEpochs:             cfg.MaxEpochs,
		GradientClipVal:       cfg.GradientClipVal,
		AccumulateGradBatches: cfg.AccumulateGradBatches,
		LogVerbosity:          logutil.DEFAULT,
	}
}

// AddFlags binds the Options fields to command-line flags on the given FlagSet.
func (opts *Options) AddFlags(fs *pflag.FlagSet) {
	if fs == nil {
		fs = pflag.CommandLine
	}
	opts.fs = fs

	fs.StringVar(&opts.ConfigFile, "config-file", opts.ConfigFile,
		"Path to a YAML trainer configuration file.")
	fs.StringVar(&opts.Accelerator, "accelerator", opts.Accelerator,
		"The accelerator the run targets (cpu, gpu, ipu).")
	fs.StringVar(&opts.Strategy, "strategy", opts.Strategy,
		"The execution strategy (single_device, ddp, dp, deepspeed).")
	fs.IntVar(&opts.MaxEpochs, "max-epochs", opts.MaxEpochs,
		"The bound on fit epochs.")
	fs.Float64Var(&opts.GradientClipVal, "gradient-clip-val", opts.GradientClipVal,
		"Gradient clipping value. 0 disables clipping.")
	fs.IntVar(&opts.AccumulateGradBatches, "accumulate-grad-batches", opts.AccumulateGradBatches,
		"Number of batches to accumulate gradients over. 1 disables accumulation.")
	fs.IntVar(&opts.LogVerbosity, "v", opts.LogVerbosity,
		"Number for the log level verbosity.")
}

// Complete merges defaults, environment, config file and parsed flags into a
// validated Config. AddFlags must have been called first.
func (opts *Options) Complete(logger logr.Logger) (*config.Config, error) {
	cfg := config.NewConfigFromEnv(logger)

	if opts.ConfigFile != "" {
		fileCfg, err := loader.LoadConfigFile(opts.ConfigFile, logger)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if opts.changed("accelerator") {
		accelerator, err := config.ParseAccelerator(opts.Accelerator)
		if err != nil {
			return nil, fmt.Errorf("invalid --accelerator - %w", err)
		}
		cfg.Accelerator = accelerator
	}
	if opts.changed("strategy") {
		strategy, err := config.ParseStrategy(opts.Strategy)
		if err != nil {
			return nil, fmt.Errorf("invalid --strategy - %w", err)
		}
		cfg.Strategy = strategy
	}
	if opts.changed("max-epochs") {
		cfg.MaxEpochs = opts.MaxEpochs
	}
	if opts.changed("gradient-clip-val") {
		cfg.GradientClipVal = opts.GradientClipVal
	}
	if opts.changed("accumulate-grad-batches") {
		cfg.AccumulateGradBatches = opts.AccumulateGradBatches
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trainer configuration - %w", err)
	}
	return cfg, nil
}

func (opts *Options) changed(name string) bool {
	if opts.fs == nil {
		return false
	}
	flag := opts.fs.Lookup(name)
	return flag != nil && flag.Changed
}
