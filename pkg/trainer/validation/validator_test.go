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

package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kacperlukawski/lightning/pkg/lightning"
	"github.com/kacperlukawski/lightning/pkg/lightning/testutil"
	"github.com/kacperlukawski/lightning/pkg/trainer/config"
	errutil "github.com/kacperlukawski/lightning/pkg/util/error"
	"github.com/kacperlukawski/lightning/pkg/util/warning"
)

func verify(t *testing.T, mode config.RunMode, model lightning.Module, datamodule lightning.DataModule) ([]warning.Warning, error) {
	t.Helper()
	recorder := &warning.Recorder{}
	err := VerifyRunConfiguration(config.NewConfig(), mode, model, datamodule, recorder)
	return recorder.Warnings, err
}

func TestWrongTrainSetting(t *testing.T) {
	// An error is returned when no train_dataloader or no training_step is
	// defined.
	model := testutil.NewBoringModel()
	model.SetHook(lightning.HookTrainDataloader, nil)
	_, err := verify(t, config.RunFit, model, nil)
	require.ErrorContains(t, err, "No `train_dataloader()` method defined.")
	assert.Equal(t, errutil.BadConfiguration, errutil.CanonicalCode(err))

	model = testutil.NewBoringModel()
	model.SetHook(lightning.HookTrainingStep, nil)
	_, err = verify(t, config.RunFit, model, nil)
	require.ErrorContains(t, err, "No `training_step()` method defined.")
}

func TestWrongConfigureOptimizers(t *testing.T) {
	model := testutil.NewBoringModel()
	model.SetHook(lightning.HookConfigureOptimizers, nil)
	_, err := verify(t, config.RunFit, model, nil)
	require.ErrorContains(t, err, "No `configure_optimizers()` method defined.")
}

func TestFitStepAndOptimizersMustLiveOnModel(t *testing.T) {
	// training_step and configure_optimizers are only accepted from the
	// model; a data module supplying them does not make the run valid.
	t.Run("training_step on datamodule", func(t *testing.T) {
		model := testutil.NewBoringModel()
		model.SetHook(lightning.HookTrainingStep, nil)
		datamodule := testutil.NewBoringDataModule()
		datamodule.SetHook(lightning.HookTrainingStep, func(ctx context.Context, batch lightning.Batch, batchIdx int) (lightning.StepResult, error) {
			return lightning.StepResult{}, nil
		})
		_, err := verify(t, config.RunFit, model, datamodule)
		require.ErrorContains(t, err, "No `training_step()` method defined.")
	})

	t.Run("configure_optimizers on datamodule", func(t *testing.T) {
		model := testutil.NewBoringModel()
		model.SetHook(lightning.HookConfigureOptimizers, nil)
		datamodule := testutil.NewBoringDataModule()
		datamodule.SetHook(lightning.HookConfigureOptimizers, func() (lightning.OptimizerConfig, error) {
			return lightning.OptimizerConfig{}, nil
		})
		_, err := verify(t, config.RunFit, model, datamodule)
		require.ErrorContains(t, err, "No `configure_optimizers()` method defined.")
	})

	t.Run("train_dataloader on datamodule passes", func(t *testing.T) {
		model := testutil.NewBoringModel()
		model.SetHook(lightning.HookTrainDataloader, nil)
		_, err := verify(t, config.RunFit, model, testutil.NewBoringDataModule())
		require.NoError(t, err)
	})
}

func TestFitValLoopConfig(t *testing.T) {
	// When either the val loop or the val data is missing a warning is
	// emitted.
	t.Run("val data without validation_step", func(t *testing.T) {
		model := testutil.NewBoringModel()
		model.SetHook(lightning.HookValidationStep, nil)
		warnings, err := verify(t, config.RunFit, model, nil)
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Equal(t, warning.Config, warnings[0].Category)
		assert.Contains(t, warnings[0].Msg, "You passed in a `val_dataloader` but have no `validation_step`")
	})

	t.Run("validation_step without val data", func(t *testing.T) {
		model := testutil.NewBoringModel()
		model.SetHook(lightning.HookValDataloader, nil)
		warnings, err := verify(t, config.RunFit, model, nil)
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Equal(t, warning.PossibleUserMisconfiguration, warnings[0].Category)
		assert.Contains(t, warnings[0].Msg, "You defined a `validation_step` but have no `val_dataloader`")
	})

	t.Run("complete model warns nothing", func(t *testing.T) {
		warnings, err := verify(t, config.RunFit, testutil.NewBoringModel(), nil)
		require.NoError(t, err)
		assert.Empty(t, warnings)
	})
}

func TestEvalLoopConfig(t *testing.T) {
	tests := []struct {
		name    string
		mode    config.RunMode
		disable string
		wantErr string
	}{
		{
			name:    "validate without val_dataloader",
			mode:    config.RunValidate,
			disable: lightning.HookValDataloader,
			wantErr: "No `val_dataloader()` method defined",
		},
		{
			name:    "validate without validation_step",
			mode:    config.RunValidate,
			disable: lightning.HookValidationStep,
			wantErr: "No `validation_step()` method defined",
		},
		{
			name:    "test without test_dataloader",
			mode:    config.RunTest,
			disable: lightning.HookTestDataloader,
			wantErr: "No `test_dataloader()` method defined",
		},
		{
			name:    "test without test_step",
			mode:    config.RunTest,
			disable: lightning.HookTestStep,
			wantErr: "No `test_step()` method defined",
		},
		{
			name:    "predict without predict_dataloader",
			mode:    config.RunPredict,
			disable: lightning.HookPredictDataloader,
			wantErr: "No `predict_dataloader()` method defined",
		},
		{
			name:    "predict without predict_step",
			mode:    config.RunPredict,
			disable: lightning.HookPredictStep,
			wantErr: "`predict_step` cannot be None.",
		},
		{
			name:    "predict without forward",
			mode:    config.RunPredict,
			disable: lightning.HookForward,
			wantErr: "requires `forward` method to run.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := testutil.NewBoringModel()
			model.SetHook(tt.disable, nil)
			_, err := verify(t, tt.mode, model, nil)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEvalLoopConfigComplete(t *testing.T) {
	for _, mode := range []config.RunMode{config.RunFit, config.RunValidate, config.RunTest, config.RunPredict} {
		t.Run(mode.String(), func(t *testing.T) {
			_, err := verify(t, mode, testutil.NewBoringModel(), nil)
			require.NoError(t, err)
		})
	}
}

// forwardOnlyModel only implements the forward pass; dataloaders come from
// elsewhere.
type forwardOnlyModel struct {
	lightning.ModuleBase
}

func (m *forwardOnlyModel) Forward(batch lightning.Batch) (lightning.Batch, error) {
	return batch, nil
}

func TestPredictVerifyConfig(t *testing.T) {
	t.Run("datamodule provides predict_dataloader", func(t *testing.T) {
		_, err := verify(t, config.RunPredict, &forwardOnlyModel{}, testutil.NewBoringDataModule())
		require.NoError(t, err)
	})

	t.Run("no predict_dataloader anywhere", func(t *testing.T) {
		_, err := verify(t, config.RunPredict, &forwardOnlyModel{}, nil)
		require.ErrorContains(t, err, "No `predict_dataloader()` method defined")
	})

	// The predict_step check precedes the forward check: a disabled
	// predict_step fails even though forward is defined.
	t.Run("disabled predict_step wins over defined forward", func(t *testing.T) {
		model := testutil.NewBoringModel()
		model.SetHook(lightning.HookPredictStep, nil)
		_, err := verify(t, config.RunPredict, model, nil)
		require.ErrorContains(t, err, "`predict_step` cannot be None.")
	})
}

func TestManualOptimizationConfig(t *testing.T) {
	// Trainer features driving the optimizers are rejected under manual
	// optimization, independently of each other.
	t.Run("gradient clipping", func(t *testing.T) {
		model := testutil.NewBoringModel()
		model.SetAutomaticOptimization(false)
		cfg := config.NewConfig()
		cfg.GradientClipVal = 1.0
		err := VerifyRunConfiguration(cfg, config.RunFit, model, nil, &warning.Recorder{})
		require.ErrorContains(t, err, "Automatic gradient clipping is not supported")
	})

	t.Run("gradient accumulation", func(t *testing.T) {
		model := testutil.NewBoringModel()
		model.SetAutomaticOptimization(false)
		cfg := config.NewConfig()
		cfg.AccumulateGradBatches = 2
		err := VerifyRunConfiguration(cfg, config.RunFit, model, nil, &warning.Recorder{})
		require.ErrorContains(t, err, "Automatic gradient accumulation is not supported")
	})

	t.Run("manual optimization alone passes", func(t *testing.T) {
		model := testutil.NewBoringModel()
		model.SetAutomaticOptimization(false)
		_, err := verify(t, config.RunFit, model, nil)
		require.NoError(t, err)
	})

	t.Run("automatic optimization with clipping passes", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.GradientClipVal = 1.0
		err := VerifyRunConfiguration(cfg, config.RunFit, testutil.NewBoringModel(), nil, &warning.Recorder{})
		require.NoError(t, err)
	})
}

// modelWithBadSetup declares a Setup method without a Stage argument.
type modelWithBadSetup struct {
	*testutil.BoringModel
}

func (m *modelWithBadSetup) Setup(ctx context.Context) error { return nil }

// dataModuleWithBadSetup shadows the boring data module's well-formed Setup.
type dataModuleWithBadSetup struct {
	*testutil.BoringDataModule
}

func (d *dataModuleWithBadSetup) Setup(ctx context.Context) error { return nil }

// callbackWithBadSetup declares Setup without a Stage argument.
type callbackWithBadSetup struct{}

func (c *callbackWithBadSetup) Setup(ctx context.Context) error { return nil }

// callbackWithGoodSetup implements the SetupHook interface.
type callbackWithGoodSetup struct{}

func (c *callbackWithGoodSetup) Setup(ctx context.Context, stage lightning.Stage) error { return nil }

func TestInvalidSetupMethod(t *testing.T) {
	// A setup method without a stage argument is rejected for the model, the
	// data module and callbacks independently.
	t.Run("model", func(t *testing.T) {
		model := &modelWithBadSetup{BoringModel: testutil.NewBoringModel()}
		_, err := verify(t, config.RunFit, model, testutil.NewBoringDataModule())
		require.ErrorContains(t, err, "does not have a `stage` argument")
		require.ErrorContains(t, err, "modelWithBadSetup.setup")
	})

	t.Run("datamodule", func(t *testing.T) {
		datamodule := &dataModuleWithBadSetup{BoringDataModule: testutil.NewBoringDataModule()}
		_, err := verify(t, config.RunFit, testutil.NewBoringModel(), datamodule)
		require.ErrorContains(t, err, "does not have a `stage` argument")
		require.ErrorContains(t, err, "dataModuleWithBadSetup.setup")
	})

	t.Run("callback", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Callbacks = []lightning.Callback{&callbackWithBadSetup{}}
		err := VerifyRunConfiguration(cfg, config.RunFit, testutil.NewBoringModel(), nil, &warning.Recorder{})
		require.ErrorContains(t, err, "does not have a `stage` argument")
		require.ErrorContains(t, err, "callbackWithBadSetup.setup")
	})

	t.Run("well-formed setup passes", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Callbacks = []lightning.Callback{&callbackWithGoodSetup{}}
		err := VerifyRunConfiguration(cfg, config.RunFit, testutil.NewBoringModel(), testutil.NewBoringDataModule(), &warning.Recorder{})
		require.NoError(t, err)
	})
}

func TestValidationIsIdempotent(t *testing.T) {
	// Validating twice with an unchanged model raises the same outcome.
	model := testutil.NewBoringModel()
	model.SetHook(lightning.HookTrainingStep, nil)

	_, first := verify(t, config.RunFit, model, nil)
	_, second := verify(t, config.RunFit, model, nil)
	require.Error(t, first)
	assert.Equal(t, first, second)
}
