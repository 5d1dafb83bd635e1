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

// Package env reads typed trainer settings from environment variables,
// falling back to a default when a variable is unset or fails to parse. A
// bad value never aborts startup; it is logged and the default wins.
package env

import (
	"os"
	"strconv"

	"github.com/go-logr/logr"
)

// GetEnvParsed reads key and converts it with parse. It returns defaultVal
// when the variable is unset or parse rejects the raw value. Enum-valued
// settings pass their Parse function here directly.
func GetEnvParsed[T any](key string, defaultVal T, parse func(string) (T, error), logger logr.Logger) T {
	raw, ok := os.LookupEnv(key)
	if !ok {
		logger.Info("Environment variable not set, using default value", "key", key, "defaultValue", defaultVal)
		return defaultVal
	}

	value, err := parse(raw)
	if err != nil {
		logger.Info("Ignoring unparsable environment variable, using default value",
			"key", key, "rawValue", raw, "error", err, "defaultValue", defaultVal)
		return defaultVal
	}

	logger.Info("Loaded environment variable", "key", key, "value", value)
	return value
}

// GetEnvFloat gets a float64 from an environment variable with a default value.
func GetEnvFloat(key string, defaultVal float64, logger logr.Logger) float64 {
	parse := func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
	return GetEnvParsed(key, defaultVal, parse, logger)
}

// GetEnvInt gets an int from an environment variable with a default value.
func GetEnvInt(key string, defaultVal int, logger logr.Logger) int {
	return GetEnvParsed(key, defaultVal, strconv.Atoi, logger)
}
