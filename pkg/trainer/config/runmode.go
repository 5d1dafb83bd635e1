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

// Package config holds the run configuration of the trainer: the run mode,
// the selected accelerator and strategy, and the numeric knobs validated
// before a run starts.
package config

import "github.com/kacperlukawski/lightning/pkg/lightning"

// RunMode selects which hook subset a run requires.
type RunMode int

const (
	RunFit RunMode = iota
	RunValidate
	RunTest
	RunPredict
)

func (m RunMode) String() string {
	switch m {
	case RunFit:
		return "fit"
	case RunValidate:
		return "validate"
	case RunTest:
		return "test"
	case RunPredict:
		return "predict"
	default:
		return "unknown"
	}
}

// Stage returns the setup/teardown stage corresponding to the run mode.
func (m RunMode) Stage() lightning.Stage {
	return lightning.Stage(m.String())
}
