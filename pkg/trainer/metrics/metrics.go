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

// Package metrics records trainer-level Prometheus metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// TrainerSubsystem is the metrics subsystem of the trainer facade.
	TrainerSubsystem = "trainer"
)

var (
	registerMetrics sync.Once

	runsStartedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: TrainerSubsystem,
			Name:      "runs_started_total",
			Help:      "Counter of runs started, partitioned by run mode.",
		},
		[]string{"run_mode"},
	)

	validationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: TrainerSubsystem,
			Name:      "validation_failures_total",
			Help:      "Counter of run configurations rejected before the loop started, partitioned by run mode and canonical error code.",
		},
		[]string{"run_mode", "error_code"},
	)
)

// Register registers the trainer metrics with the given registerer, or the
// default registerer when nil. Subsequent calls are no-ops.
func Register(registerer prometheus.Registerer) {
	registerMetrics.Do(func() {
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}
		registerer.MustRegister(runsStartedTotal)
		registerer.MustRegister(validationFailuresTotal)
	})
}

// RecordRunStarted counts a run entering validation.
func RecordRunStarted(runMode string) {
	runsStartedTotal.WithLabelValues(runMode).Inc()
}

// RecordValidationFailure counts a run rejected during validation.
func RecordValidationFailure(runMode, errorCode string) {
	validationFailuresTotal.WithLabelValues(runMode, errorCode).Inc()
}
