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

package error

import (
	"fmt"
)

// Error is an error struct for errors returned by the trainer.
type Error struct {
	Code string
	Msg  string
}

const (
	Unknown          = "Unknown"
	Internal         = "Internal"
	BadConfiguration = "BadConfiguration"
	StrategyConflict = "StrategyConflict"
)

// Error returns a string version of the error. The Msg part is the
// compatibility surface callers match on; it names the offending hook and
// run mode verbatim.
func (e Error) Error() string {
	return fmt.Sprintf("lightning trainer: %s - %s", e.Code, e.Msg)
}

// CanonicalCode returns the error's ErrorCode.
func CanonicalCode(err error) string {
	e, ok := err.(Error)
	if ok {
		return e.Code
	}
	return Unknown
}

// Config builds a fatal BadConfiguration error, raised when a required hook
// is missing, disabled, or declared with the wrong shape.
func Config(format string, a ...any) Error {
	return Error{Code: BadConfiguration, Msg: fmt.Sprintf(format, a...)}
}

// Strategy builds a fatal StrategyConflict error, raised when an overridden
// hook is incompatible with the selected strategy or accelerator.
func Strategy(format string, a ...any) Error {
	return Error{Code: StrategyConflict, Msg: fmt.Sprintf(format, a...)}
}
