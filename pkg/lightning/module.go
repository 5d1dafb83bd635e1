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

package lightning

import "context"

// Optional hook interfaces. A module opts into a hook by implementing the
// matching interface; the framework defaults (see defaults.go) are used for
// the hooks that have one and are not implemented by the module.

// TrainDataLoaderHook supplies the training dataloader.
type TrainDataLoaderHook interface {
	TrainDataloader() DataLoader
}

// ValDataLoaderHook supplies the validation dataloader.
type ValDataLoaderHook interface {
	ValDataloader() DataLoader
}

// TestDataLoaderHook supplies the test dataloader.
type TestDataLoaderHook interface {
	TestDataloader() DataLoader
}

// PredictDataLoaderHook supplies the prediction dataloader.
type PredictDataLoaderHook interface {
	PredictDataloader() DataLoader
}

// TrainingStepHook computes the loss for one training batch.
type TrainingStepHook interface {
	TrainingStep(ctx context.Context, batch Batch, batchIdx int) (StepResult, error)
}

// ValidationStepHook evaluates one validation batch.
type ValidationStepHook interface {
	ValidationStep(ctx context.Context, batch Batch, batchIdx int) (StepResult, error)
}

// TestStepHook evaluates one test batch.
type TestStepHook interface {
	TestStep(ctx context.Context, batch Batch, batchIdx int) (StepResult, error)
}

// PredictStepHook produces predictions for one batch. When a module does not
// implement it, the framework default delegates to the forward hook.
type PredictStepHook interface {
	PredictStep(ctx context.Context, batch Batch, batchIdx int) (Batch, error)
}

// ForwardHook runs the module's forward pass on a batch.
type ForwardHook interface {
	Forward(batch Batch) (Batch, error)
}

// ConfigureOptimizersHook builds the optimizers used during fitting.
type ConfigureOptimizersHook interface {
	ConfigureOptimizers() (OptimizerConfig, error)
}

// SetupHook is invoked once per run before any dataloader is touched.
// A setup implementation must accept the Stage argument; the validator
// rejects Setup methods declared without one.
type SetupHook interface {
	Setup(ctx context.Context, stage Stage) error
}

// TeardownHook is invoked once per run after the loop finished.
type TeardownHook interface {
	Teardown(ctx context.Context, stage Stage) error
}

// OnBeforeBatchTransferHook customizes a batch before device transfer.
type OnBeforeBatchTransferHook interface {
	OnBeforeBatchTransfer(batch Batch, dataloaderIdx int) Batch
}

// TransferBatchToDeviceHook moves a batch to the target device.
type TransferBatchToDeviceHook interface {
	TransferBatchToDevice(batch Batch, device Device, dataloaderIdx int) Batch
}

// OnAfterBatchTransferHook customizes a batch after device transfer.
type OnAfterBatchTransferHook interface {
	OnAfterBatchTransfer(batch Batch, dataloaderIdx int) Batch
}

// HookState is the per-instance hook override ledger. It lets callers attach
// a hook implementation at runtime or disable one that the type implements,
// mirroring attribute assignment in dynamic frameworks. ModuleBase and
// DataModuleBase provide it; user types embed one of those.
type HookState interface {
	// SetHook records fn as the implementation of the named hook. A nil fn
	// explicitly disables the hook, which is distinct from never setting it.
	SetHook(name string, fn any)
	// HookOverride returns the recorded implementation for the named hook and
	// whether one was recorded at all.
	HookOverride(name string) (fn any, ok bool)
}

// Module is a trainable unit. Concrete modules embed *ModuleBase and
// implement the optional hook interfaces they need.
type Module interface {
	HookState
	// AutomaticOptimization reports whether the trainer drives the
	// optimizers. Manual-optimization modules call them from training_step
	// themselves, which rules out trainer-side gradient clipping and
	// accumulation.
	AutomaticOptimization() bool
}

// ModuleBase supplies the hook ledger and optimization-mode flag for user
// modules. The zero value uses automatic optimization.
type ModuleBase struct {
	overrides          map[string]any
	manualOptimization bool
}

// SetHook records fn as the implementation of the named hook; nil disables it.
func (b *ModuleBase) SetHook(name string, fn any) {
	if b.overrides == nil {
		b.overrides = map[string]any{}
	}
	b.overrides[name] = fn
}

// HookOverride returns the recorded implementation for the named hook.
func (b *ModuleBase) HookOverride(name string) (any, bool) {
	fn, ok := b.overrides[name]
	return fn, ok
}

// AutomaticOptimization reports whether the trainer drives the optimizers.
func (b *ModuleBase) AutomaticOptimization() bool {
	return !b.manualOptimization
}

// SetAutomaticOptimization switches between automatic and manual
// optimization.
func (b *ModuleBase) SetAutomaticOptimization(automatic bool) {
	b.manualOptimization = !automatic
}
