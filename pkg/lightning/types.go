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

// Package lightning defines the hook vocabulary shared between user-supplied
// modules, data modules, callbacks and the trainer. A module participates in
// a run by implementing the optional hook interfaces declared here; the
// trainer probes for them before the run starts and rejects configurations
// that cannot execute.
package lightning

import "context"

// Stage identifies the phase of a run a setup/teardown hook is invoked for.
type Stage string

const (
	StageFit      Stage = "fit"
	StageValidate Stage = "validate"
	StageTest     Stage = "test"
	StagePredict  Stage = "predict"
)

// Batch is a single unit of data produced by a DataLoader. The tensor
// runtime underneath is out of scope here, so batches are opaque to the
// trainer and only interpreted by user hooks.
type Batch = any

// Device identifies where batches are placed before a step runs.
type Device string

const (
	DeviceCPU  Device = "cpu"
	DeviceCUDA Device = "cuda"
	DeviceIPU  Device = "ipu"
)

// DataLoader yields batches for one pass over a dataset.
type DataLoader interface {
	// Next returns the next batch. It returns io.EOF once the loader is
	// exhausted.
	Next(ctx context.Context) (Batch, error)
}

// StepResult carries the outcome of a single training/validation/test step.
type StepResult struct {
	// Loss is the scalar loss of the step.
	Loss float64
	// Metrics holds additional named scalars logged by the step.
	Metrics map[string]float64
}

// Optimizer updates module parameters. The optimizer math lives in the
// backing tensor library; the trainer only drives the interface.
type Optimizer interface {
	// Step applies one parameter update.
	Step(ctx context.Context) error
	// ZeroGrad clears accumulated gradients.
	ZeroGrad()
}

// OptimizerConfig is returned by the configure_optimizers hook.
type OptimizerConfig struct {
	Optimizers []Optimizer
}
