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

// DataModule bundles the dataloader-family hooks so datasets can be reused
// across modules. A data module may implement any of the dataloader hook
// interfaces plus SetupHook/TeardownHook; a dataloader defined on the data
// module takes precedence over one defined on the module.
type DataModule interface {
	HookState
}

// DataModuleBase supplies the hook ledger for user data modules.
type DataModuleBase struct {
	overrides map[string]any
}

// SetHook records fn as the implementation of the named hook; nil disables it.
func (b *DataModuleBase) SetHook(name string, fn any) {
	if b.overrides == nil {
		b.overrides = map[string]any{}
	}
	b.overrides[name] = fn
}

// HookOverride returns the recorded implementation for the named hook.
func (b *DataModuleBase) HookOverride(name string) (any, bool) {
	fn, ok := b.overrides[name]
	return fn, ok
}
