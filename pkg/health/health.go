// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package health

import "time"

// State classifies a model's current health for routing and operator visibility.
type State string

const (
	// StateHealthy means the model has no consecutive failures on record.
	StateHealthy State = "healthy"
	// StateDegraded means the model has failed recently but is still eligible
	// for invocation (below the failure threshold, or its cooldown has elapsed).
	StateDegraded State = "degraded"
	// StateUnavailable means the model has reached the failure threshold and
	// is inside its cooldown window.
	StateUnavailable State = "unavailable"
)

// Metrics exposes the current health state of a model for monitoring and
// operator visibility. All fields are point-in-time snapshots safe to
// serialize to JSON.
type Metrics struct {
	State               State      `json:"state"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	LastFailureAt       *time.Time `json:"last_failure_at,omitempty"`
	CooldownUntil       *time.Time `json:"cooldown_until,omitempty"`
}
