package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testTarget = "kafka:payments"

func newTestBreaker(cfg Config) (*CircuitBreaker, *time.Time) {
	cb := NewCircuitBreaker(cfg)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return now }
	return cb, &now
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb, _ := newTestBreaker(Config{})
	assert.True(t, cb.AllowRequest(testTarget))
	cb.RecordFailure(testTarget)
	cb.RecordFailure(testTarget)
	assert.True(t, cb.AllowRequest(testTarget), "Should still be closed after 2 failures")
	cb.RecordFailure(testTarget)
	assert.False(t, cb.AllowRequest(testTarget), "Should be open after 3 failures with default config")
}

func TestCircuitBreaker_StateTransitions(t *testing.T) {
	cb, now := newTestBreaker(Config{FailureThreshold: 2, ResetTimeout: time.Minute})

	cb.RecordFailure(testTarget)
	state, failures := cb.GetStatus(testTarget)
	assert.Equal(t, StateClosed, state)
	assert.Equal(t, 1, failures)

	cb.RecordFailure(testTarget)
	state, _ = cb.GetStatus(testTarget)
	assert.Equal(t, StateOpen, state)
	assert.False(t, cb.AllowRequest(testTarget))

	*now = now.Add(time.Minute)
	assert.True(t, cb.AllowRequest(testTarget), "trial request allowed after reset timeout")
	state, _ = cb.GetStatus(testTarget)
	assert.Equal(t, StateHalfOpen, state)

	cb.RecordFailure(testTarget)
	state, _ = cb.GetStatus(testTarget)
	assert.Equal(t, StateOpen, state, "failed trial request re-opens")

	*now = now.Add(time.Minute)
	assert.True(t, cb.AllowRequest(testTarget))
	cb.RecordSuccess(testTarget)
	state, failures = cb.GetStatus(testTarget)
	assert.Equal(t, StateClosed, state)
	assert.Zero(t, failures)
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 2})
	cb.RecordFailure(testTarget)
	cb.RecordSuccess(testTarget)
	cb.RecordFailure(testTarget)
	state, failures := cb.GetStatus(testTarget)
	assert.Equal(t, StateClosed, state)
	assert.Equal(t, 1, failures)
}

func TestCircuitBreaker_TargetsAreIndependent(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 1})
	cb.RecordFailure(testTarget)
	assert.False(t, cb.AllowRequest(testTarget))
	assert.True(t, cb.AllowRequest("another"))
	state, _ := cb.GetStatus("unseen")
	assert.Equal(t, StateClosed, state)
	assert.Equal(t, "open", StateOpen.String())
}
