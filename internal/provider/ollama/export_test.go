// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package ollama

// CompatURL exposes compatURL for white-box testing.
var CompatURL = compatURL
