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

import (
	"context"
	"fmt"
)

// Framework-default hook implementations. Defaults live here rather than on
// ModuleBase so that implementing one of the optional hook interfaces is an
// unambiguous user override: the strategy compatibility checks must tell a
// user-supplied batch-transfer hook apart from the stock behavior.

// DefaultPredictStep delegates prediction to the module's forward hook.
func DefaultPredictStep(ctx context.Context, m any, batch Batch, batchIdx int) (Batch, error) {
	f, ok := m.(ForwardHook)
	if !ok {
		return nil, fmt.Errorf("module %T has no forward hook for the default predict_step", m)
	}
	return f.Forward(batch)
}

// DefaultOnBeforeBatchTransfer returns the batch unchanged.
func DefaultOnBeforeBatchTransfer(batch Batch, dataloaderIdx int) Batch {
	return batch
}

// DefaultTransferBatchToDevice returns the batch unchanged; actual device
// placement belongs to the tensor runtime.
func DefaultTransferBatchToDevice(batch Batch, device Device, dataloaderIdx int) Batch {
	return batch
}

// DefaultOnAfterBatchTransfer returns the batch unchanged.
func DefaultOnAfterBatchTransfer(batch Batch, dataloaderIdx int) Batch {
	return batch
}

// defaultHooks records the identity of every framework default so override
// detection can compare against it instead of testing mere presence.
var defaultHooks = map[string]any{
	HookPredictStep:           DefaultPredictStep,
	HookOnBeforeBatchTransfer: DefaultOnBeforeBatchTransfer,
	HookTransferBatchToDevice: DefaultTransferBatchToDevice,
	HookOnAfterBatchTransfer:  DefaultOnAfterBatchTransfer,
}

// DefaultHook returns the framework-default implementation of the named hook
// and whether one exists.
func DefaultHook(name string) (any, bool) {
	fn, ok := defaultHooks[name]
	return fn, ok
}
