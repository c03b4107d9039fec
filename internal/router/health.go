// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package router

import (
	"sync"
	"time"

	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
	"github.com/crewgate-dev/crewgate/pkg/health"
)

const (
	// DefaultFailureThreshold is how many consecutive failures put a model
	// into cooldown.
	DefaultFailureThreshold = 3
	// DefaultCooldown is how long a model at the failure threshold stays
	// suspended before it becomes eligible for retry.
	DefaultCooldown = 5 * time.Minute
)

// HealthStore tracks per-model consecutive failures in memory. A model with
// no record has zero failures. State does not survive process restarts and
// the counters are heuristics: concurrent callers may interleave updates,
// which is acceptable as long as individual records are not corrupted.
type HealthStore struct {
	mu        sync.RWMutex
	records   map[string]healthRecord
	threshold int
	cooldown  time.Duration
	nowFunc   func() time.Time // for testing
}

type healthRecord struct {
	failures    int
	lastFailure time.Time
}

// NewHealthStore creates a HealthStore. Returns an error if threshold or
// cooldown is not positive.
func NewHealthStore(threshold int, cooldown time.Duration) (*HealthStore, error) {
	if threshold <= 0 {
		return nil, cgerr.Errorf(cgerr.CodeConfigValidateInvalidValue,
			"health store failure threshold must be positive, got %d", threshold)
	}
	if cooldown <= 0 {
		return nil, cgerr.Errorf(cgerr.CodeConfigValidateInvalidValue,
			"health store cooldown must be positive, got %s", cooldown)
	}
	return &HealthStore{
		records:   make(map[string]healthRecord),
		threshold: threshold,
		cooldown:  cooldown,
		nowFunc:   time.Now,
	}, nil
}

// RecordSuccess clears the model's failure record. A single success restores
// a model regardless of how many failures preceded it.
func (h *HealthStore) RecordSuccess(modelID string) {
	h.mu.Lock()
	delete(h.records, modelID)
	h.mu.Unlock()
}

// RecordFailure increments the model's consecutive failure count and
// refreshes its last-failure timestamp.
func (h *HealthStore) RecordFailure(modelID string) {
	h.mu.Lock()
	rec := h.records[modelID]
	rec.failures++
	rec.lastFailure = h.nowFunc()
	h.records[modelID] = rec
	h.mu.Unlock()
}

// Failures returns the model's current consecutive failure count.
func (h *HealthStore) Failures(modelID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.records[modelID].failures
}

// InCooldown reports whether the model is suspended: at or above the failure
// threshold with its cooldown window still open.
func (h *HealthStore) InCooldown(modelID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.inCooldownLocked(h.records[modelID])
}

// inCooldownLocked evaluates the cooldown invariant. The caller MUST hold at
// least h.mu.RLock.
func (h *HealthStore) inCooldownLocked(rec healthRecord) bool {
	if rec.failures < h.threshold {
		return false
	}
	return h.nowFunc().Sub(rec.lastFailure) < h.cooldown
}

// Metrics returns a point-in-time snapshot of the model's health, including
// the derived tri-state classification.
func (h *HealthStore) Metrics(modelID string) health.Metrics {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rec := h.records[modelID]

	m := health.Metrics{
		State:               health.StateHealthy,
		ConsecutiveFailures: rec.failures,
	}
	if rec.failures == 0 {
		return m
	}

	t := rec.lastFailure
	m.LastFailureAt = &t

	if h.inCooldownLocked(rec) {
		m.State = health.StateUnavailable
		until := rec.lastFailure.Add(h.cooldown)
		m.CooldownUntil = &until
	} else {
		// Failed recently, or past the threshold with the cooldown elapsed.
		// Only a success resets the counter; time alone never does.
		m.State = health.StateDegraded
	}

	return m
}

// Reset drops every health record, e.g. for administrative recovery or test
// isolation.
func (h *HealthStore) Reset() {
	h.mu.Lock()
	h.records = make(map[string]healthRecord)
	h.mu.Unlock()
}

// SetNowFunc overrides the time source (for testing).
func (h *HealthStore) SetNowFunc(fn func() time.Time) {
	h.mu.Lock()
	h.nowFunc = fn
	h.mu.Unlock()
}
