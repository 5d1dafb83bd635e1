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
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/kacperlukawski/lightning/pkg/lightning"
	"github.com/kacperlukawski/lightning/pkg/trainer/config"
	logutil "github.com/kacperlukawski/lightning/pkg/util/logging"
)

// singleDeviceRunner is the stock Runner: a synchronous loop on one device.
// Distributed strategies plug in their own Runner behind the same seam; this
// implementation is deliberately minimal since batch math happens in the
// user hooks.
type singleDeviceRunner struct {
	device lightning.Device
}

func newSingleDeviceRunner(device lightning.Device) *singleDeviceRunner {
	return &singleDeviceRunner{device: device}
}

func (r *singleDeviceRunner) Run(ctx context.Context, mode config.RunMode, cfg *config.Config, model lightning.Module, datamodule lightning.DataModule) (*Result, error) {
	switch mode {
	case config.RunFit:
		return r.fit(ctx, cfg, model, datamodule)
	case config.RunValidate:
		return r.eval(ctx, model, datamodule, lightning.HookValDataloader, lightning.HookValidationStep)
	case config.RunTest:
		return r.eval(ctx, model, datamodule, lightning.HookTestDataloader, lightning.HookTestStep)
	case config.RunPredict:
		return r.predict(ctx, model, datamodule)
	default:
		return nil, fmt.Errorf("unsupported run mode %q", mode)
	}
}

func (r *singleDeviceRunner) fit(ctx context.Context, cfg *config.Config, model lightning.Module, datamodule lightning.DataModule) (*Result, error) {
	logger := logr.FromContextOrDiscard(ctx)

	configureOptimizers := resolveConfigureOptimizers(model)
	optCfg, err := configureOptimizers()
	if err != nil {
		return nil, fmt.Errorf("configure_optimizers failed - %w", err)
	}

	step := resolveStep(model, lightning.HookTrainingStep)
	if step == nil {
		return nil, fmt.Errorf("training_step is not callable")
	}
	var lastLoss float64
	var steps int

	for epoch := 0; epoch < cfg.MaxEpochs; epoch++ {
		loader := resolveDataloader(model, datamodule, lightning.HookTrainDataloader)
		if loader == nil {
			return nil, fmt.Errorf("train_dataloader returned no loader")
		}
		batchIdx := 0
		for {
			batch, err := loader.Next(ctx)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, err
			}

			batch = r.transferBatch(model, batch, 0)
			result, err := step(ctx, batch, batchIdx)
			if err != nil {
				return nil, fmt.Errorf("training_step failed - %w", err)
			}
			lastLoss = result.Loss
			steps++

			if model.AutomaticOptimization() && steps%cfg.AccumulateGradBatches == 0 {
				for _, opt := range optCfg.Optimizers {
					if err := opt.Step(ctx); err != nil {
						return nil, fmt.Errorf("optimizer step failed - %w", err)
					}
					opt.ZeroGrad()
				}
			}
			batchIdx++
		}
		logger.V(logutil.TRACE).Info("Finished training epoch", "epoch", epoch, "loss", lastLoss)
	}

	return &Result{Metrics: map[string]float64{"train_loss": lastLoss}}, nil
}

func (r *singleDeviceRunner) eval(ctx context.Context, model lightning.Module, datamodule lightning.DataModule, loaderHook, stepHook string) (*Result, error) {
	loader := resolveDataloader(model, datamodule, loaderHook)
	if loader == nil {
		return nil, fmt.Errorf("%s returned no loader", loaderHook)
	}
	step := resolveStep(model, stepHook)
	if step == nil {
		return nil, fmt.Errorf("%s is not callable", stepHook)
	}

	var total float64
	var batches int
	batchIdx := 0
	for {
		batch, err := loader.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		batch = r.transferBatch(model, batch, 0)
		result, err := step(ctx, batch, batchIdx)
		if err != nil {
			return nil, fmt.Errorf("%s failed - %w", stepHook, err)
		}
		total += result.Loss
		batches++
		batchIdx++
	}

	metrics := map[string]float64{}
	if batches > 0 {
		metrics["loss"] = total / float64(batches)
	}
	return &Result{Metrics: metrics}, nil
}

func (r *singleDeviceRunner) predict(ctx context.Context, model lightning.Module, datamodule lightning.DataModule) (*Result, error) {
	loader := resolveDataloader(model, datamodule, lightning.HookPredictDataloader)
	if loader == nil {
		return nil, fmt.Errorf("predict_dataloader returned no loader")
	}
	step := resolvePredictStep(model)

	result := &Result{}
	batchIdx := 0
	for {
		batch, err := loader.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		batch = r.transferBatch(model, batch, 0)
		prediction, err := step(ctx, batch, batchIdx)
		if err != nil {
			return nil, fmt.Errorf("predict_step failed - %w", err)
		}
		result.Predictions = append(result.Predictions, prediction)
		batchIdx++
	}
	return result, nil
}

// transferBatch runs the three-stage batch placement pipeline, honoring
// overrides and falling back to the framework defaults.
func (r *singleDeviceRunner) transferBatch(model lightning.Module, batch lightning.Batch, dataloaderIdx int) lightning.Batch {
	if fn := resolveBatchHook(model, lightning.HookOnBeforeBatchTransfer); fn != nil {
		batch = fn(batch, dataloaderIdx)
	} else {
		batch = lightning.DefaultOnBeforeBatchTransfer(batch, dataloaderIdx)
	}

	if fn, set := model.HookOverride(lightning.HookTransferBatchToDevice); set {
		if transfer, ok := fn.(func(lightning.Batch, lightning.Device, int) lightning.Batch); ok {
			batch = transfer(batch, r.device, dataloaderIdx)
		}
	} else if h, ok := model.(lightning.TransferBatchToDeviceHook); ok {
		batch = h.TransferBatchToDevice(batch, r.device, dataloaderIdx)
	} else {
		batch = lightning.DefaultTransferBatchToDevice(batch, r.device, dataloaderIdx)
	}

	if fn := resolveBatchHook(model, lightning.HookOnAfterBatchTransfer); fn != nil {
		batch = fn(batch, dataloaderIdx)
	} else {
		batch = lightning.DefaultOnAfterBatchTransfer(batch, dataloaderIdx)
	}
	return batch
}

// Hook resolution prefers the override ledger over the interface
// implementation, matching the probe order used during validation.

func resolveDataloader(model lightning.Module, datamodule lightning.DataModule, hook string) lightning.DataLoader {
	sources := []any{}
	if datamodule != nil {
		sources = append(sources, datamodule)
	}
	sources = append(sources, model)

	for _, source := range sources {
		if lightning.ProbeHook(source, hook) != lightning.HookDefined {
			continue
		}
		if hs, ok := source.(lightning.HookState); ok {
			if fn, set := hs.HookOverride(hook); set {
				if loaderFn, ok := fn.(func() lightning.DataLoader); ok {
					return loaderFn()
				}
				continue
			}
		}
		switch hook {
		case lightning.HookTrainDataloader:
			if h, ok := source.(lightning.TrainDataLoaderHook); ok {
				return h.TrainDataloader()
			}
		case lightning.HookValDataloader:
			if h, ok := source.(lightning.ValDataLoaderHook); ok {
				return h.ValDataloader()
			}
		case lightning.HookTestDataloader:
			if h, ok := source.(lightning.TestDataLoaderHook); ok {
				return h.TestDataloader()
			}
		case lightning.HookPredictDataloader:
			if h, ok := source.(lightning.PredictDataLoaderHook); ok {
				return h.PredictDataloader()
			}
		}
	}
	return nil
}

type stepFunc func(ctx context.Context, batch lightning.Batch, batchIdx int) (lightning.StepResult, error)

func resolveStep(model lightning.Module, hook string) stepFunc {
	if fn, set := model.HookOverride(hook); set {
		if step, ok := fn.(func(context.Context, lightning.Batch, int) (lightning.StepResult, error)); ok {
			return step
		}
		return nil
	}
	switch hook {
	case lightning.HookTrainingStep:
		if h, ok := model.(lightning.TrainingStepHook); ok {
			return h.TrainingStep
		}
	case lightning.HookValidationStep:
		if h, ok := model.(lightning.ValidationStepHook); ok {
			return h.ValidationStep
		}
	case lightning.HookTestStep:
		if h, ok := model.(lightning.TestStepHook); ok {
			return h.TestStep
		}
	}
	return nil
}

func resolvePredictStep(model lightning.Module) func(ctx context.Context, batch lightning.Batch, batchIdx int) (lightning.Batch, error) {
	if fn, set := model.HookOverride(lightning.HookPredictStep); set && fn != nil {
		if step, ok := fn.(func(context.Context, lightning.Batch, int) (lightning.Batch, error)); ok {
			return step
		}
	} else if h, ok := model.(lightning.PredictStepHook); ok {
		return h.PredictStep
	}
	return func(ctx context.Context, batch lightning.Batch, batchIdx int) (lightning.Batch, error) {
		return lightning.DefaultPredictStep(ctx, model, batch, batchIdx)
	}
}

func resolveConfigureOptimizers(model lightning.Module) func() (lightning.OptimizerConfig, error) {
	if fn, set := model.HookOverride(lightning.HookConfigureOptimizers); set {
		if configure, ok := fn.(func() (lightning.OptimizerConfig, error)); ok {
			return configure
		}
		return func() (lightning.OptimizerConfig, error) {
			return lightning.OptimizerConfig{}, nil
		}
	}
	if h, ok := model.(lightning.ConfigureOptimizersHook); ok {
		return h.ConfigureOptimizers
	}
	return func() (lightning.OptimizerConfig, error) {
		return lightning.OptimizerConfig{}, nil
	}
}

func resolveBatchHook(model lightning.Module, hook string) func(lightning.Batch, int) lightning.Batch {
	if fn, set := model.HookOverride(hook); set {
		if h, ok := fn.(func(lightning.Batch, int) lightning.Batch); ok {
			return h
		}
		return nil
	}
	switch hook {
	case lightning.HookOnBeforeBatchTransfer:
		if h, ok := model.(lightning.OnBeforeBatchTransferHook); ok {
			return h.OnBeforeBatchTransfer
		}
	case lightning.HookOnAfterBatchTransfer:
		if h, ok := model.(lightning.OnAfterBatchTransferHook); ok {
			return h.OnAfterBatchTransfer
		}
	}
	return nil
}
