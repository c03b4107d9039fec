// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewgate-dev/crewgate/pkg/health"
)

func newTestHealthStore(t *testing.T) *HealthStore {
	t.Helper()
	hs, err := NewHealthStore(DefaultFailureThreshold, DefaultCooldown)
	require.NoError(t, err)
	return hs
}

func TestHealthStoreStartsHealthy(t *testing.T) {
	hs := newTestHealthStore(t)

	m := hs.Metrics("claude-sonnet-4-5")
	assert.Equal(t, health.StateHealthy, m.State)
	assert.Equal(t, 0, m.ConsecutiveFailures)
	assert.Nil(t, m.LastFailureAt)
	assert.Nil(t, m.CooldownUntil)
	assert.False(t, hs.InCooldown("claude-sonnet-4-5"))
}

func TestHealthStoreDegradedBelowThreshold(t *testing.T) {
	hs := newTestHealthStore(t)

	hs.RecordFailure("gpt-4.1")
	hs.RecordFailure("gpt-4.1")

	m := hs.Metrics("gpt-4.1")
	assert.Equal(t, health.StateDegraded, m.State)
	assert.Equal(t, 2, m.ConsecutiveFailures)
	require.NotNil(t, m.LastFailureAt)
	assert.Nil(t, m.CooldownUntil)
	assert.False(t, hs.InCooldown("gpt-4.1"))
}

func TestHealthStoreCooldownAtThreshold(t *testing.T) {
	hs := newTestHealthStore(t)

	for range DefaultFailureThreshold {
		hs.RecordFailure("gpt-4.1")
	}

	assert.True(t, hs.InCooldown("gpt-4.1"))
	m := hs.Metrics("gpt-4.1")
	assert.Equal(t, health.StateUnavailable, m.State)
	require.NotNil(t, m.CooldownUntil)
	require.NotNil(t, m.LastFailureAt)
	assert.Equal(t, m.LastFailureAt.Add(DefaultCooldown), *m.CooldownUntil)
}

func TestHealthStoreCooldownExpires(t *testing.T) {
	hs := newTestHealthStore(t)

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	hs.SetNowFunc(func() time.Time { return now })

	for range DefaultFailureThreshold {
		hs.RecordFailure("gemini-2.5-pro")
	}
	assert.True(t, hs.InCooldown("gemini-2.5-pro"))

	// One nanosecond before expiry the model is still suspended.
	now = now.Add(DefaultCooldown - time.Nanosecond)
	assert.True(t, hs.InCooldown("gemini-2.5-pro"))

	// At expiry the suspension lifts, but the failure count survives:
	// only a recorded success clears it.
	now = now.Add(time.Nanosecond)
	assert.False(t, hs.InCooldown("gemini-2.5-pro"))
	m := hs.Metrics("gemini-2.5-pro")
	assert.Equal(t, health.StateDegraded, m.State)
	assert.Equal(t, DefaultFailureThreshold, m.ConsecutiveFailures)
}

func TestHealthStoreFailureDuringCooldownExtendsIt(t *testing.T) {
	hs := newTestHealthStore(t)

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	hs.SetNowFunc(func() time.Time { return now })

	for range DefaultFailureThreshold {
		hs.RecordFailure("grok-3")
	}

	now = now.Add(4 * time.Minute)
	hs.RecordFailure("grok-3")

	// The window restarts from the most recent failure.
	now = now.Add(4 * time.Minute)
	assert.True(t, hs.InCooldown("grok-3"))
	now = now.Add(2 * time.Minute)
	assert.False(t, hs.InCooldown("grok-3"))
}

func TestHealthStoreSuccessResets(t *testing.T) {
	hs := newTestHealthStore(t)

	for range DefaultFailureThreshold {
		hs.RecordFailure("deepseek-chat")
	}
	require.True(t, hs.InCooldown("deepseek-chat"))

	hs.RecordSuccess("deepseek-chat")

	m := hs.Metrics("deepseek-chat")
	assert.Equal(t, health.StateHealthy, m.State)
	assert.Equal(t, 0, m.ConsecutiveFailures)
	assert.Nil(t, m.LastFailureAt)
	assert.False(t, hs.InCooldown("deepseek-chat"))

	// Resetting an already-clean model is a no-op.
	hs.RecordSuccess("deepseek-chat")
	assert.Equal(t, 0, hs.Failures("deepseek-chat"))
}

func TestHealthStoreTracksModelsIndependently(t *testing.T) {
	hs := newTestHealthStore(t)

	for range DefaultFailureThreshold {
		hs.RecordFailure("gpt-4.1")
	}
	hs.RecordFailure("gpt-4.1-mini")

	assert.True(t, hs.InCooldown("gpt-4.1"))
	assert.False(t, hs.InCooldown("gpt-4.1-mini"))
	assert.Equal(t, 1, hs.Failures("gpt-4.1-mini"))
}

func TestHealthStoreReset(t *testing.T) {
	hs := newTestHealthStore(t)

	hs.RecordFailure("gpt-4.1")
	for range DefaultFailureThreshold {
		hs.RecordFailure("grok-3")
	}

	hs.Reset()

	assert.Equal(t, 0, hs.Failures("gpt-4.1"))
	assert.False(t, hs.InCooldown("grok-3"))
	assert.Equal(t, health.StateHealthy, hs.Metrics("grok-3").State)
}

func TestNewHealthStoreRejectsInvalidTunables(t *testing.T) {
	_, err := NewHealthStore(0, DefaultCooldown)
	assert.Error(t, err)

	_, err = NewHealthStore(DefaultFailureThreshold, 0)
	assert.Error(t, err)
}
