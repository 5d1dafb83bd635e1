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

// Package warning carries the non-fatal diagnostics emitted during run
// configuration validation. Warnings are delivered to a Handler one at a
// time as they are encountered; the run proceeds regardless.
package warning

import (
	"fmt"

	"github.com/go-logr/logr"

	logutil "github.com/kacperlukawski/lightning/pkg/util/logging"
)

// Category distinguishes plain configuration warnings from the
// likely-but-not-certainly-wrong kind.
type Category string

const (
	// Config marks an inconsistent but tolerated configuration.
	Config Category = "Config"
	// PossibleUserMisconfiguration marks a configuration that is probably,
	// but not certainly, a user mistake.
	PossibleUserMisconfiguration Category = "PossibleUserMisconfiguration"
)

// Warning is a single non-fatal diagnostic.
type Warning struct {
	Category Category
	Msg      string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Category, w.Msg)
}

// Configf builds a Config-category warning.
func Configf(format string, a ...any) Warning {
	return Warning{Category: Config, Msg: fmt.Sprintf(format, a...)}
}

// Possiblef builds a PossibleUserMisconfiguration-category warning.
func Possiblef(format string, a ...any) Warning {
	return Warning{Category: PossibleUserMisconfiguration, Msg: fmt.Sprintf(format, a...)}
}

// Handler receives warnings as validation encounters them.
type Handler interface {
	Warn(w Warning)
}

type logHandler struct {
	logger logr.Logger
}

// NewLogHandler returns a Handler that writes warnings to the given logger.
func NewLogHandler(logger logr.Logger) Handler {
	return &logHandler{logger: logger}
}

func (h *logHandler) Warn(w Warning) {
	h.logger.V(logutil.DEFAULT).Info(w.Msg, "category", string(w.Category))
}

// Recorder collects warnings for inspection in tests.
type Recorder struct {
	Warnings []Warning
}

func (r *Recorder) Warn(w Warning) {
	r.Warnings = append(r.Warnings, w)
}
