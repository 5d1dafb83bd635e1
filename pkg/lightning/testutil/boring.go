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

// Package testutil provides minimal module and data module implementations
// used by the trainer tests and the example command. The boring model
// defines every hook a fit/validate/test/predict run needs, so tests can
// disable individual hooks and assert on the resulting diagnostics.
package testutil

import (
	"context"
	"io"

	"github.com/kacperlukawski/lightning/pkg/lightning"
)

// SliceLoader yields the given batches once, in order.
type SliceLoader struct {
	batches []lightning.Batch
	next    int
}

// NewSliceLoader builds a loader over the given batches.
func NewSliceLoader(batches ...lightning.Batch) *SliceLoader {
	return &SliceLoader{batches: batches}
}

// Next returns the next batch or io.EOF when the loader is exhausted.
func (l *SliceLoader) Next(ctx context.Context) (lightning.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.next >= len(l.batches) {
		return nil, io.EOF
	}
	b := l.batches[l.next]
	l.next++
	return b, nil
}

// NoopOptimizer counts Step calls and does nothing else.
type NoopOptimizer struct {
	Steps int
}

func (o *NoopOptimizer) Step(ctx context.Context) error {
	o.Steps++
	return nil
}

func (o *NoopOptimizer) ZeroGrad() {}

// BoringModel implements all hooks required by every run mode. Each
// dataloader hook serves two scalar batches.
type BoringModel struct {
	lightning.ModuleBase

	// Optimizer is handed out by ConfigureOptimizers.
	Optimizer *NoopOptimizer
}

// NewBoringModel returns a fresh boring model.
func NewBoringModel() *BoringModel {
	return &BoringModel{Optimizer: &NoopOptimizer{}}
}

func (m *BoringModel) loader() lightning.DataLoader {
	return NewSliceLoader(1.0, 2.0)
}

func (m *BoringModel) TrainDataloader() lightning.DataLoader   { return m.loader() }
func (m *BoringModel) ValDataloader() lightning.DataLoader     { return m.loader() }
func (m *BoringModel) TestDataloader() lightning.DataLoader    { return m.loader() }
func (m *BoringModel) PredictDataloader() lightning.DataLoader { return m.loader() }

func (m *BoringModel) Forward(batch lightning.Batch) (lightning.Batch, error) {
	return batch, nil
}

func (m *BoringModel) TrainingStep(ctx context.Context, batch lightning.Batch, batchIdx int) (lightning.StepResult, error) {
	return lightning.StepResult{Loss: 1.0}, nil
}

func (m *BoringModel) ValidationStep(ctx context.Context, batch lightning.Batch, batchIdx int) (lightning.StepResult, error) {
	return lightning.StepResult{Loss: 0.5}, nil
}

func (m *BoringModel) TestStep(ctx context.Context, batch lightning.Batch, batchIdx int) (lightning.StepResult, error) {
	return lightning.StepResult{Loss: 0.25}, nil
}

func (m *BoringModel) ConfigureOptimizers() (lightning.OptimizerConfig, error) {
	return lightning.OptimizerConfig{Optimizers: []lightning.Optimizer{m.Optimizer}}, nil
}

// BoringDataModule provides the same dataloaders as BoringModel through a
// data module, plus a well-formed setup hook.
type BoringDataModule struct {
	lightning.DataModuleBase

	// SetupStage records the stage the last Setup call received.
	SetupStage lightning.Stage
}

// NewBoringDataModule returns a fresh boring data module.
func NewBoringDataModule() *BoringDataModule {
	return &BoringDataModule{}
}

func (d *BoringDataModule) loader() lightning.DataLoader {
	return NewSliceLoader(1.0, 2.0)
}

func (d *BoringDataModule) TrainDataloader() lightning.DataLoader   { return d.loader() }
func (d *BoringDataModule) ValDataloader() lightning.DataLoader     { return d.loader() }
func (d *BoringDataModule) TestDataloader() lightning.DataLoader    { return d.loader() }
func (d *BoringDataModule) PredictDataloader() lightning.DataLoader { return d.loader() }

func (d *BoringDataModule) Setup(ctx context.Context, stage lightning.Stage) error {
	d.SetupStage = stage
	return nil
}
