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

// Package validation inspects a module and optional data module against the
// hook contract of a run mode before the trainer starts the run. All checks
// are synchronous, read-only and fail fast: the first violated rule is
// returned and nothing is retried. Non-fatal findings go to a warning
// handler one at a time.
//
// The order of the checks is part of the observable contract. Structural
// presence checks run first, then cross-field checks (manual optimization,
// setup signature); callers depend on which diagnostic wins when several
// rules are violated at once.
package validation

import (
	"reflect"

	"github.com/kacperlukawski/lightning/pkg/lightning"
	"github.com/kacperlukawski/lightning/pkg/trainer/config"
	errutil "github.com/kacperlukawski/lightning/pkg/util/error"
	"github.com/kacperlukawski/lightning/pkg/util/warning"
)

// Diagnostic message templates. The exact wording is the compatibility
// surface: callers match on these substrings.
const (
	fitMissingMsgFmt = "No `%s()` method defined. Lightning `Trainer` expects as minimum a " +
		"`training_step()`, `train_dataloader()` and `configure_optimizers()` to be defined."
	evalMissingMsgFmt    = "No `%s()` method defined to run `Trainer.%s`."
	predictStepNilMsg    = "`predict_step` cannot be None."
	predictNoForwardMsg  = "`Trainer.predict` requires `forward` method to run."
	valLoopNoStepMsg     = "You passed in a `val_dataloader` but have no `validation_step`. Skipping val loop."
	valStepNoLoaderMsg   = "You defined a `validation_step` but have no `val_dataloader`. Skipping val loop."
	manualClipMsgFmt     = "Automatic gradient clipping is not supported for manual optimization. Remove `Trainer(gradient_clip_val=%v)` or switch to automatic optimization."
	manualAccumulateFmt  = "Automatic gradient accumulation is not supported for manual optimization. Remove `Trainer(accumulate_grad_batches=%d)` or switch to automatic optimization."
	setupMissingStageFmt = "`%s.setup` does not have a `stage` argument."
)

// fitModelHooks enumerates the hooks a fit run requires on the module
// itself, in check order. The training dataloader is checked separately
// because it may come from the data module; these two may not.
var fitModelHooks = []string{
	lightning.HookTrainingStep,
	lightning.HookConfigureOptimizers,
}

// VerifyRunConfiguration checks that model (and datamodule, when given)
// define the hooks the run mode requires. It returns the first violated rule
// as a BadConfiguration error and emits non-fatal findings on warn. It never
// mutates model or datamodule.
func VerifyRunConfiguration(cfg *config.Config, mode config.RunMode, model lightning.Module, datamodule lightning.DataModule, warn warning.Handler) error {
	var err error
	switch mode {
	case config.RunFit:
		err = verifyFitLoopConfiguration(model, datamodule, warn)
	case config.RunValidate:
		err = verifyEvalLoopConfiguration(mode, model, datamodule, lightning.HookValDataloader, lightning.HookValidationStep)
	case config.RunTest:
		err = verifyEvalLoopConfiguration(mode, model, datamodule, lightning.HookTestDataloader, lightning.HookTestStep)
	case config.RunPredict:
		err = verifyPredictLoopConfiguration(model, datamodule)
	}
	if err != nil {
		return err
	}

	if mode == config.RunFit {
		if err := verifyManualOptimizationSupport(cfg, model); err != nil {
			return err
		}
	}

	return verifySetupMethods(model, datamodule, cfg.Callbacks)
}

// verifyFitLoopConfiguration checks the hooks required for fitting and warns
// about half-configured validation loops.
func verifyFitLoopConfiguration(model lightning.Module, datamodule lightning.DataModule, warn warning.Handler) error {
	if hookSource(model, datamodule, lightning.HookTrainDataloader) != lightning.HookDefined {
		return errutil.Config(fitMissingMsgFmt, lightning.HookTrainDataloader)
	}
	for _, hook := range fitModelHooks {
		if lightning.ProbeHook(model, hook) != lightning.HookDefined {
			return errutil.Config(fitMissingMsgFmt, hook)
		}
	}

	hasValLoader := hookSource(model, datamodule, lightning.HookValDataloader) == lightning.HookDefined
	hasValStep := lightning.ProbeHook(model, lightning.HookValidationStep) == lightning.HookDefined
	if hasValLoader && !hasValStep {
		warn.Warn(warning.Configf(valLoopNoStepMsg))
	}
	if hasValStep && !hasValLoader {
		warn.Warn(warning.Possiblef(valStepNoLoaderMsg))
	}
	return nil
}

// verifyEvalLoopConfiguration checks the dataloader/step hook pair of the
// validate and test modes, dataloader first.
func verifyEvalLoopConfiguration(mode config.RunMode, model lightning.Module, datamodule lightning.DataModule, loaderHook, stepHook string) error {
	if hookSource(model, datamodule, loaderHook) != lightning.HookDefined {
		return errutil.Config(evalMissingMsgFmt, loaderHook, mode)
	}
	if lightning.ProbeHook(model, stepHook) != lightning.HookDefined {
		return errutil.Config(evalMissingMsgFmt, stepHook, mode)
	}
	return nil
}

// verifyPredictLoopConfiguration checks the predict mode. The predict_step
// check precedes the forward check: a disabled predict_step fails even when
// forward is present, and forward is only required when predict_step falls
// back to the framework default.
func verifyPredictLoopConfiguration(model lightning.Module, datamodule lightning.DataModule) error {
	if hookSource(model, datamodule, lightning.HookPredictDataloader) != lightning.HookDefined {
		return errutil.Config(evalMissingMsgFmt, lightning.HookPredictDataloader, config.RunPredict)
	}
	switch lightning.ProbeHook(model, lightning.HookPredictStep) {
	case lightning.HookDisabled:
		return errutil.Config(predictStepNilMsg)
	case lightning.HookNotOverridden:
		if lightning.ProbeHook(model, lightning.HookForward) != lightning.HookDefined {
			return errutil.Config(predictNoForwardMsg)
		}
	}
	return nil
}

// verifyManualOptimizationSupport rejects trainer features that drive the
// optimizers when the module opted into manual optimization. The two checks
// are independent; clipping is reported first.
func verifyManualOptimizationSupport(cfg *config.Config, model lightning.Module) error {
	if model.AutomaticOptimization() {
		return nil
	}
	if cfg.GradientClipVal > 0 {
		return errutil.Config(manualClipMsgFmt, cfg.GradientClipVal)
	}
	if cfg.AccumulateGradBatches != config.DefaultAccumulateGradBatches {
		return errutil.Config(manualAccumulateFmt, cfg.AccumulateGradBatches)
	}
	return nil
}

// verifySetupMethods rejects setup hooks declared without a stage argument
// on the model, the data module and every callback, in that order.
func verifySetupMethods(model lightning.Module, datamodule lightning.DataModule, callbacks []lightning.Callback) error {
	targets := []any{model}
	if datamodule != nil {
		targets = append(targets, datamodule)
	}
	for _, cb := range callbacks {
		targets = append(targets, cb)
	}

	for _, target := range targets {
		if lightning.HasMalformedSetup(target) {
			return errutil.Config(setupMissingStageFmt, typeName(target))
		}
	}
	return nil
}

// hookSource resolves where a dataloader-family hook comes from: a hook
// defined on the data module shadows the module's.
func hookSource(model lightning.Module, datamodule lightning.DataModule, hook string) lightning.HookPresence {
	if datamodule != nil {
		if p := lightning.ProbeHook(datamodule, hook); p == lightning.HookDefined {
			return p
		}
	}
	return lightning.ProbeHook(model, hook)
}

// typeName returns the bare type name of target for diagnostics.
func typeName(target any) string {
	t := reflect.TypeOf(target)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}
