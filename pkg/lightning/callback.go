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

// Callback observes a run at well-defined points without being part of the
// module itself. A callback opts into notifications by implementing the
// matching optional interface (SetupHook, TeardownHook). Callbacks are
// subject to the same setup-signature validation as modules and data
// modules.
type Callback any
