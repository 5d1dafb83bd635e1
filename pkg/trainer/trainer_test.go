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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kacperlukawski/lightning/pkg/lightning"
	"github.com/kacperlukawski/lightning/pkg/lightning/testutil"
	"github.com/kacperlukawski/lightning/pkg/trainer/config"
	"github.com/kacperlukawski/lightning/pkg/util/warning"
)

func newTestTrainer(t *testing.T, cfg *config.Config, opts ...Option) *Trainer {
	t.Helper()
	trainer, err := New(cfg, opts...)
	require.NoError(t, err)
	return trainer
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.AccumulateGradBatches = 0

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accumulateGradBatches")
}

func TestFitStepsOptimizer(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MaxEpochs = 3

	model := testutil.NewBoringModel()
	trainer := newTestTrainer(t, cfg)

	require.NoError(t, trainer.Fit(context.Background(), model, nil))
	// 2 batches per epoch, 3 epochs, no accumulation.
	assert.Equal(t, 6, model.Optimizer.Steps)
}

func TestFitAccumulatesGradBatches(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MaxEpochs = 2
	cfg.AccumulateGradBatches = 2

	model := testutil.NewBoringModel()
	trainer := newTestTrainer(t, cfg)

	require.NoError(t, trainer.Fit(context.Background(), model, nil))
	// 2 batches per epoch with accumulation over 2 gives one step per epoch.
	assert.Equal(t, 2, model.Optimizer.Steps)
}

func TestFitManualOptimizationSkipsOptimizer(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MaxEpochs = 1

	model := testutil.NewBoringModel()
	model.SetAutomaticOptimization(false)
	trainer := newTestTrainer(t, cfg)

	require.NoError(t, trainer.Fit(context.Background(), model, nil))
	assert.Zero(t, model.Optimizer.Steps)
}

func TestValidateReportsLoss(t *testing.T) {
	trainer := newTestTrainer(t, nil)

	result, err := trainer.Validate(context.Background(), testutil.NewBoringModel(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, result.Metrics["loss"], 1e-9)
}

func TestTestReportsLoss(t *testing.T) {
	trainer := newTestTrainer(t, nil)

	result, err := trainer.Test(context.Background(), testutil.NewBoringModel(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, result.Metrics["loss"], 1e-9)
}

func TestPredictFallsBackToForward(t *testing.T) {
	trainer := newTestTrainer(t, nil)

	// BoringModel has no predict_step, so predictions come from forward.
	result, err := trainer.Predict(context.Background(), testutil.NewBoringModel(), nil)
	require.NoError(t, err)
	assert.Equal(t, []lightning.Batch{1.0, 2.0}, result.Predictions)
}

func TestPredictUsesDataModuleLoader(t *testing.T) {
	model := testutil.NewBoringModel()
	model.SetHook(lightning.HookPredictDataloader, nil)

	trainer := newTestTrainer(t, nil)
	result, err := trainer.Predict(context.Background(), model, testutil.NewBoringDataModule())
	require.NoError(t, err)
	assert.Len(t, result.Predictions, 2)
}

type recordingRunner struct {
	calls int
	mode  config.RunMode
}

func (r *recordingRunner) Run(ctx context.Context, mode config.RunMode, cfg *config.Config, model lightning.Module, datamodule lightning.DataModule) (*Result, error) {
	r.calls++
	r.mode = mode
	return &Result{}, nil
}

func TestValidationFailureSkipsRunner(t *testing.T) {
	model := testutil.NewBoringModel()
	model.SetHook(lightning.HookTrainingStep, nil)

	runner := &recordingRunner{}
	trainer := newTestTrainer(t, nil, WithRunner(runner))

	err := trainer.Fit(context.Background(), model, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "`training_step()`")
	assert.Zero(t, runner.calls)
}

func TestCustomRunnerReceivesMode(t *testing.T) {
	runner := &recordingRunner{}
	trainer := newTestTrainer(t, nil, WithRunner(runner))

	_, err := trainer.Test(context.Background(), testutil.NewBoringModel(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, config.RunTest, runner.mode)
}

func TestSetupReceivesStage(t *testing.T) {
	dm := testutil.NewBoringDataModule()
	trainer := newTestTrainer(t, nil)

	_, err := trainer.Validate(context.Background(), testutil.NewBoringModel(), dm)
	require.NoError(t, err)
	assert.Equal(t, lightning.StageValidate, dm.SetupStage)
}

func TestDisabledSetupIsSkipped(t *testing.T) {
	dm := testutil.NewBoringDataModule()
	dm.SetHook(lightning.HookSetup, nil)
	trainer := newTestTrainer(t, nil)

	_, err := trainer.Validate(context.Background(), testutil.NewBoringModel(), dm)
	require.NoError(t, err)
	assert.Empty(t, dm.SetupStage)
}

func TestFitForwardsWarnings(t *testing.T) {
	model := testutil.NewBoringModel()
	model.SetHook(lightning.HookValDataloader, nil)

	cfg := config.NewConfig()
	cfg.MaxEpochs = 1

	recorder := &warning.Recorder{}
	trainer := newTestTrainer(t, cfg, WithWarningHandler(recorder))

	require.NoError(t, trainer.Fit(context.Background(), model, nil))
	require.Len(t, recorder.Warnings, 1)
	assert.Equal(t, warning.PossibleUserMisconfiguration, recorder.Warnings[0].Category)
}
