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

import "reflect"

// Hook names. These are the user-facing identifiers that appear in
// diagnostics, so they keep the canonical snake_case spelling.
const (
	HookTrainDataloader       = "train_dataloader"
	HookValDataloader         = "val_dataloader"
	HookTestDataloader        = "test_dataloader"
	HookPredictDataloader     = "predict_dataloader"
	HookTrainingStep          = "training_step"
	HookValidationStep        = "validation_step"
	HookTestStep              = "test_step"
	HookPredictStep           = "predict_step"
	HookConfigureOptimizers   = "configure_optimizers"
	HookForward               = "forward"
	HookSetup                 = "setup"
	HookOnBeforeBatchTransfer = "on_before_batch_transfer"
	HookTransferBatchToDevice = "transfer_batch_to_device"
	HookOnAfterBatchTransfer  = "on_after_batch_transfer"
)

// HookPresence is the tri-state result of probing an instance for a hook.
type HookPresence int

const (
	// HookNotOverridden means the instance supplies no implementation of its
	// own; the framework default applies where one exists.
	HookNotOverridden HookPresence = iota
	// HookDefined means the instance supplies its own implementation, either
	// by implementing the hook interface or through the override ledger.
	HookDefined
	// HookDisabled means the hook was explicitly set to nil on the ledger.
	HookDisabled
)

func (p HookPresence) String() string {
	switch p {
	case HookDefined:
		return "defined"
	case HookDisabled:
		return "disabled"
	default:
		return "not_overridden"
	}
}

// hookProbes maps each hook name to an interface-assertion probe. Structural
// typing keeps the probe table declarative: presence of a hook is presence
// of its interface on the concrete type.
var hookProbes = map[string]func(any) bool{
	HookTrainDataloader:       func(t any) bool { _, ok := t.(TrainDataLoaderHook); return ok },
	HookValDataloader:         func(t any) bool { _, ok := t.(ValDataLoaderHook); return ok },
	HookTestDataloader:        func(t any) bool { _, ok := t.(TestDataLoaderHook); return ok },
	HookPredictDataloader:     func(t any) bool { _, ok := t.(PredictDataLoaderHook); return ok },
	HookTrainingStep:          func(t any) bool { _, ok := t.(TrainingStepHook); return ok },
	HookValidationStep:        func(t any) bool { _, ok := t.(ValidationStepHook); return ok },
	HookTestStep:              func(t any) bool { _, ok := t.(TestStepHook); return ok },
	HookPredictStep:           func(t any) bool { _, ok := t.(PredictStepHook); return ok },
	HookConfigureOptimizers:   func(t any) bool { _, ok := t.(ConfigureOptimizersHook); return ok },
	HookForward:               func(t any) bool { _, ok := t.(ForwardHook); return ok },
	HookSetup:                 func(t any) bool { _, ok := t.(SetupHook); return ok },
	HookOnBeforeBatchTransfer: func(t any) bool { _, ok := t.(OnBeforeBatchTransferHook); return ok },
	HookTransferBatchToDevice: func(t any) bool { _, ok := t.(TransferBatchToDeviceHook); return ok },
	HookOnAfterBatchTransfer:  func(t any) bool { _, ok := t.(OnAfterBatchTransferHook); return ok },
}

// ProbeHook reports the presence of the named hook on target. The override
// ledger wins over the concrete type: a ledger entry of nil disables a hook
// even when the type implements it, and a non-nil entry defines it even when
// the type does not. A ledger entry that is identical to the registered
// framework default counts as not overridden.
func ProbeHook(target any, name string) HookPresence {
	if hs, ok := target.(HookState); ok {
		if fn, set := hs.HookOverride(name); set {
			if fn == nil {
				return HookDisabled
			}
			if def, ok := DefaultHook(name); ok && sameFunc(fn, def) {
				return HookNotOverridden
			}
			return HookDefined
		}
	}
	if probe, ok := hookProbes[name]; ok && probe(target) {
		return HookDefined
	}
	return HookNotOverridden
}

// HookIsOverridden reports whether target supplies its own implementation of
// the named hook, as opposed to relying on the framework default or having
// none at all.
func HookIsOverridden(target any, name string) bool {
	return ProbeHook(target, name) == HookDefined
}

// HasMalformedSetup reports whether target declares a setup hook that does
// not accept a Stage argument. Implementations of SetupHook are well-formed
// by construction; a Setup method with any other shape, or a ledger-attached
// setup func without a Stage parameter, is malformed.
func HasMalformedSetup(target any) bool {
	if hs, ok := target.(HookState); ok {
		if fn, set := hs.HookOverride(HookSetup); set {
			return fn != nil && !funcAcceptsStage(fn)
		}
	}
	if _, ok := target.(SetupHook); ok {
		return false
	}
	m := reflect.ValueOf(target).MethodByName("Setup")
	if !m.IsValid() {
		return false
	}
	return !funcAcceptsStage(m.Interface())
}

var stageType = reflect.TypeOf(Stage(""))

func funcAcceptsStage(fn any) bool {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return false
	}
	for i := 0; i < t.NumIn(); i++ {
		if t.In(i) == stageType {
			return true
		}
	}
	return false
}

// sameFunc reports whether two function values point at the same code.
func sameFunc(a, b any) bool {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.Kind() != reflect.Func || bv.Kind() != reflect.Func {
		return false
	}
	return av.Pointer() == bv.Pointer()
}
