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
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  Error
		want string
	}{
		{
			name: "BadConfiguration error",
			err: Error{
				Code: BadConfiguration,
				Msg:  "No `training_step()` method defined.",
			},
			want: "lightning trainer: BadConfiguration - No `training_step()` method defined.",
		},
		{
			name: "StrategyConflict error",
			err: Error{
				Code: StrategyConflict,
				Msg:  "Overriding `transfer_batch_to_device` is not supported in DP mode.",
			},
			want: "lightning trainer: StrategyConflict - Overriding `transfer_batch_to_device` is not supported in DP mode.",
		},
		{
			name: "Internal error",
			err: Error{
				Code: Internal,
				Msg:  "unexpected condition",
			},
			want: "lightning trainer: Internal - unexpected condition",
		},
		{
			name: "Unknown error",
			err: Error{
				Code: Unknown,
				Msg:  "something went wrong",
			},
			want: "lightning trainer: Unknown - something went wrong",
		},
		{
			name: "Empty message",
			err: Error{
				Code: BadConfiguration,
				Msg:  "",
			},
			want: "lightning trainer: BadConfiguration - ",
		},
		{
			name: "Empty code",
			err: Error{
				Code: "",
				Msg:  "error occurred",
			},
			want: "lightning trainer:  - error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanonicalCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "Error type with BadConfiguration code",
			err:  Config("No `%s()` method defined.", "train_dataloader"),
			want: BadConfiguration,
		},
		{
			name: "Error type with StrategyConflict code",
			err:  Strategy("Overriding `%s` is not supported with IPUs.", "on_after_batch_transfer"),
			want: StrategyConflict,
		},
		{
			name: "plain error",
			err:  errors.New("plain error"),
			want: Unknown,
		},
		{
			name: "nil error",
			err:  nil,
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalCode(tt.err); got != tt.want {
				t.Errorf("CanonicalCode() = %v, want %v", got, tt.want)
			}
		})
	}
}
