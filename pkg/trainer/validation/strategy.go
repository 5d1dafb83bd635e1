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
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/kacperlukawski/lightning/pkg/lightning"
	"github.com/kacperlukawski/lightning/pkg/trainer/config"
	errutil "github.com/kacperlukawski/lightning/pkg/util/error"
)

// batchTransferHooks are the hooks a module may override to customize batch
// placement, in check order.
var batchTransferHooks = []string{
	lightning.HookOnBeforeBatchTransfer,
	lightning.HookTransferBatchToDevice,
	lightning.HookOnAfterBatchTransfer,
}

// strategyRule rejects overrides of the restricted hooks when the rule
// matches the selected accelerator/strategy combination.
type strategyRule struct {
	restricted sets.Set[string]
	matches    func(cfg *config.Config) bool
	// msgFmt names the offending strategy/accelerator family and takes the
	// hook name as its only verb.
	msgFmt string
}

// strategyRules is the static compatibility table. IPU execution compiles a
// fixed host-to-device pipeline; data-parallel replication splits batches
// inside the replication layer. Neither can honor per-module transfer hooks.
var strategyRules = []strategyRule{
	{
		restricted: sets.New(batchTransferHooks...),
		matches:    func(cfg *config.Config) bool { return cfg.Accelerator == config.AcceleratorIPU },
		msgFmt:     "Overriding `%s` is not supported with IPUs.",
	},
	{
		restricted: sets.New(batchTransferHooks...),
		matches:    func(cfg *config.Config) bool { return cfg.Strategy == config.StrategyDataParallel },
		msgFmt:     "Overriding `%s` is not supported in DP mode.",
	},
}

// VerifyBatchTransferSupport rejects user-overridden batch-transfer hooks
// under strategies and accelerators with a fixed transfer pipeline. Only a
// genuine override trips the check: modules relying on the framework
// defaults pass.
func VerifyBatchTransferSupport(cfg *config.Config, model lightning.Module) error {
	for _, rule := range strategyRules {
		if !rule.matches(cfg) {
			continue
		}
		for _, hook := range batchTransferHooks {
			if !rule.restricted.Has(hook) {
				continue
			}
			if lightning.HookIsOverridden(model, hook) {
				return errutil.Strategy(rule.msgFmt, hook)
			}
		}
	}
	return nil
}
