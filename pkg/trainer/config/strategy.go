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

package config

import "fmt"

// Strategy is an enumeration of execution strategies for a run.
//
// The trainer only selects a strategy and validates the configuration
// against it; the distributed communication backend behind each strategy is
// an external collaborator.
type Strategy int

const (
	// StrategySingleDevice runs everything on one device. This is the
	// default.
	StrategySingleDevice Strategy = iota

	// StrategyDDP replicates the module per process; each process owns its
	// device and batches are sharded across processes.
	StrategyDDP

	// StrategyDataParallel replicates the module across the devices of a
	// single process and splits each batch between them. The replication
	// pipeline owns batch placement, so per-module batch-transfer hooks
	// cannot be honored.
	StrategyDataParallel

	// StrategyDeepSpeed delegates optimizer sharding and device placement to
	// an external distributed-optimizer engine.
	StrategyDeepSpeed
)

var strategyNames = map[Strategy]string{
	StrategySingleDevice: "single_device",
	StrategyDDP:          "ddp",
	StrategyDataParallel: "dp",
	StrategyDeepSpeed:    "deepspeed",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy maps a strategy name to its enum value.
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return StrategySingleDevice, fmt.Errorf("unknown strategy %q", name)
}

// Accelerator is an enumeration of the hardware families a run targets.
type Accelerator int

const (
	// AcceleratorCPU is the default accelerator.
	AcceleratorCPU Accelerator = iota

	// AcceleratorGPU targets CUDA devices.
	AcceleratorGPU

	// AcceleratorIPU targets IPUs. The IPU execution pipeline is compiled
	// ahead of time with a fixed host-to-device transfer stage, so
	// per-module batch-transfer hooks cannot be honored.
	AcceleratorIPU
)

var acceleratorNames = map[Accelerator]string{
	AcceleratorCPU: "cpu",
	AcceleratorGPU: "gpu",
	AcceleratorIPU: "ipu",
}

func (a Accelerator) String() string {
	if name, ok := acceleratorNames[a]; ok {
		return name
	}
	return fmt.Sprintf("accelerator(%d)", int(a))
}

// ParseAccelerator maps an accelerator name to its enum value.
func ParseAccelerator(name string) (Accelerator, error) {
	for a, n := range acceleratorNames {
		if n == name {
			return a, nil
		}
	}
	return AcceleratorCPU, fmt.Errorf("unknown accelerator %q", name)
}
