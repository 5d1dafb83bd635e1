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

// Package trainer orchestrates fit/validate/test/predict runs over a
// user-supplied module. Every run is validated against the hook contract of
// its mode and the selected strategy before any loop work starts; a
// rejected configuration surfaces synchronously and no Runner is invoked.
package trainer

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/kacperlukawski/lightning/pkg/lightning"
	"github.com/kacperlukawski/lightning/pkg/trainer/config"
	"github.com/kacperlukawski/lightning/pkg/trainer/metrics"
	"github.com/kacperlukawski/lightning/pkg/trainer/validation"
	errutil "github.com/kacperlukawski/lightning/pkg/util/error"
	logutil "github.com/kacperlukawski/lightning/pkg/util/logging"
	"github.com/kacperlukawski/lightning/pkg/util/warning"
)

const (
	// loggerName is the name to use for loggers created by this package.
	loggerName = "Trainer"
)

// Result carries what a run produced.
type Result struct {
	// Metrics holds named scalars aggregated over the run.
	Metrics map[string]float64
	// Predictions holds the per-batch outputs of a predict run.
	Predictions []lightning.Batch
}

// Runner executes a validated run. The stock implementation is a synchronous
// single-device loop; distributed strategies provide their own and own all
// process/device orchestration behind this seam.
type Runner interface {
	Run(ctx context.Context, mode config.RunMode, cfg *config.Config, model lightning.Module, datamodule lightning.DataModule) (*Result, error)
}

// Trainer drives runs over a module. It is safe to reuse for several runs;
// the configuration is read-only after construction.
type Trainer struct {
	cfg    *config.Config
	logger logr.Logger
	warn   warning.Handler
	runner Runner
}

// Option customizes a Trainer at construction time.
type Option func(*Trainer)

// WithLogger sets the trainer logger.
func WithLogger(logger logr.Logger) Option {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// WithWarningHandler routes validation warnings to h instead of the logger.
func WithWarningHandler(h warning.Handler) Option {
	return func(t *Trainer) {
		t.warn = h
	}
}

// WithRunner replaces the stock single-device loop.
func WithRunner(r Runner) Option {
	return func(t *Trainer) {
		t.runner = r
	}
}

// New creates a Trainer for the given configuration. A nil cfg uses the
// package defaults.
func New(cfg *config.Config, opts ...Option) (*Trainer, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trainer configuration - %w", err)
	}

	t := &Trainer{
		cfg:    cfg,
		logger: logr.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.warn == nil {
		t.warn = warning.NewLogHandler(t.logger)
	}
	if t.runner == nil {
		t.runner = newSingleDeviceRunner(deviceFor(cfg.Accelerator))
	}

	metrics.Register(nil)

	return t, nil
}

// Fit runs the training loop. The datamodule may be nil when the model
// provides its own dataloaders.
func (t *Trainer) Fit(ctx context.Context, model lightning.Module, datamodule lightning.DataModule) error {
	_, err := t.run(ctx, config.RunFit, model, datamodule)
	return err
}

// Validate runs the validation loop.
func (t *Trainer) Validate(ctx context.Context, model lightning.Module, datamodule lightning.DataModule) (*Result, error) {
	return t.run(ctx, config.RunValidate, model, datamodule)
}

// Test runs the test loop.
func (t *Trainer) Test(ctx context.Context, model lightning.Module, datamodule lightning.DataModule) (*Result, error) {
	return t.run(ctx, config.RunTest, model, datamodule)
}

// Predict runs the prediction loop and returns the per-batch outputs.
func (t *Trainer) Predict(ctx context.Context, model lightning.Module, datamodule lightning.DataModule) (*Result, error) {
	return t.run(ctx, config.RunPredict, model, datamodule)
}

func (t *Trainer) run(ctx context.Context, mode config.RunMode, model lightning.Module, datamodule lightning.DataModule) (*Result, error) {
	logger := t.logger.WithName(loggerName).WithValues("runMode", mode.String())
	ctx = logr.NewContext(ctx, logger)

	metrics.RecordRunStarted(mode.String())
	logger.V(logutil.DEFAULT).Info("Verifying run configuration",
		"accelerator", t.cfg.Accelerator.String(), "strategy", t.cfg.Strategy.String())

	if err := validation.VerifyRunConfiguration(t.cfg, mode, model, datamodule, t.warn); err != nil {
		metrics.RecordValidationFailure(mode.String(), errutil.CanonicalCode(err))
		return nil, err
	}
	if err := validation.VerifyBatchTransferSupport(t.cfg, model); err != nil {
		metrics.RecordValidationFailure(mode.String(), errutil.CanonicalCode(err))
		return nil, err
	}

	if err := t.setup(ctx, mode, model, datamodule); err != nil {
		return nil, err
	}

	result, runErr := t.runner.Run(ctx, mode, t.cfg, model, datamodule)

	if err := t.teardown(ctx, mode, model, datamodule); err != nil && runErr == nil {
		return nil, err
	}
	if runErr != nil {
		return nil, runErr
	}

	logger.V(logutil.VERBOSE).Info("Run finished")
	return result, nil
}

// setup invokes the setup hook on the model, the data module and every
// callback that defines one.
func (t *Trainer) setup(ctx context.Context, mode config.RunMode, model lightning.Module, datamodule lightning.DataModule) error {
	for _, target := range t.lifecycleTargets(model, datamodule) {
		if err := callSetup(ctx, target, mode.Stage()); err != nil {
			return fmt.Errorf("setup failed for stage %s - %w", mode.Stage(), err)
		}
	}
	return nil
}

// teardown invokes the teardown hook on every participant that defines one.
func (t *Trainer) teardown(ctx context.Context, mode config.RunMode, model lightning.Module, datamodule lightning.DataModule) error {
	for _, target := range t.lifecycleTargets(model, datamodule) {
		if h, ok := target.(lightning.TeardownHook); ok {
			if err := h.Teardown(ctx, mode.Stage()); err != nil {
				return fmt.Errorf("teardown failed for stage %s - %w", mode.Stage(), err)
			}
		}
	}
	return nil
}

func (t *Trainer) lifecycleTargets(model lightning.Module, datamodule lightning.DataModule) []any {
	targets := []any{model}
	if datamodule != nil {
		targets = append(targets, datamodule)
	}
	for _, cb := range t.cfg.Callbacks {
		targets = append(targets, cb)
	}
	return targets
}

// callSetup honors the override ledger: a disabled setup hook is skipped
// even when the type implements SetupHook.
func callSetup(ctx context.Context, target any, stage lightning.Stage) error {
	if hs, ok := target.(lightning.HookState); ok {
		if fn, set := hs.HookOverride(lightning.HookSetup); set {
			if fn == nil {
				return nil
			}
			if setup, ok := fn.(func(context.Context, lightning.Stage) error); ok {
				return setup(ctx, stage)
			}
			return nil
		}
	}
	if h, ok := target.(lightning.SetupHook); ok {
		return h.Setup(ctx, stage)
	}
	return nil
}

func deviceFor(accelerator config.Accelerator) lightning.Device {
	switch accelerator {
	case config.AcceleratorGPU:
		return lightning.DeviceCUDA
	case config.AcceleratorIPU:
		return lightning.DeviceIPU
	default:
		return lightning.DeviceCPU
	}
}
