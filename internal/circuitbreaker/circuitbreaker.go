// Package circuitbreaker stops calling a downstream that keeps failing and
// tries it again after a cool-down.
package circuitbreaker

import (
	"sync"
	"time"
)

// State represents the state of the circuit breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

const (
	defaultFailureThreshold         = 3
	defaultResetTimeout             = 30 * time.Second
	defaultHalfOpenSuccessThreshold = 1
)

// Config tunes the breaker. Zero values fall back to defaults.
type Config struct {
	FailureThreshold         int           // consecutive failures that open the circuit
	ResetTimeout             time.Duration // time spent open before a trial request
	HalfOpenSuccessThreshold int           // trial successes needed to close
}

type targetState struct {
	state                State
	consecutiveFailures  int
	consecutiveSuccesses int
	openUntil            time.Time
}

// CircuitBreaker tracks health per named target.
type CircuitBreaker struct {
	mu      sync.Mutex
	targets map[string]*targetState
	cfg     Config
	now     func() time.Time
}

// NewCircuitBreaker creates a CircuitBreaker.
func NewCircuitBreaker(cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = defaultResetTimeout
	}
	if cfg.HalfOpenSuccessThreshold <= 0 {
		cfg.HalfOpenSuccessThreshold = defaultHalfOpenSuccessThreshold
	}
	return &CircuitBreaker{
		targets: make(map[string]*targetState),
		cfg:     cfg,
		now:     time.Now,
	}
}

// caller holds cb.mu
func (cb *CircuitBreaker) target(name string) *targetState {
	ts, ok := cb.targets[name]
	if !ok {
		ts = &targetState{state: StateClosed}
		cb.targets[name] = ts
	}
	return ts
}

// AllowRequest reports whether a call to name may proceed. An open circuit
// whose timeout has passed moves to half-open and lets a trial request through.
func (cb *CircuitBreaker) AllowRequest(name string) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	ts := cb.target(name)
	switch ts.state {
	case StateOpen:
		if cb.now().Before(ts.openUntil) {
			return false
		}
		ts.state = StateHalfOpen
		ts.consecutiveSuccesses = 0
		return true
	default:
		return true
	}
}

// RecordFailure records a failed call to name.
func (cb *CircuitBreaker) RecordFailure(name string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	ts := cb.target(name)
	switch ts.state {
	case StateClosed:
		ts.consecutiveFailures++
		if ts.consecutiveFailures >= cb.cfg.FailureThreshold {
			cb.open(ts)
		}
	case StateHalfOpen:
		cb.open(ts)
	}
}

// RecordSuccess records a successful call to name.
func (cb *CircuitBreaker) RecordSuccess(name string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	ts := cb.target(name)
	switch ts.state {
	case StateClosed:
		ts.consecutiveFailures = 0
	case StateHalfOpen:
		ts.consecutiveSuccesses++
		if ts.consecutiveSuccesses >= cb.cfg.HalfOpenSuccessThreshold {
			ts.state = StateClosed
			ts.consecutiveFailures = 0
			ts.consecutiveSuccesses = 0
		}
	}
}

func (cb *CircuitBreaker) open(ts *targetState) {
	ts.state = StateOpen
	ts.openUntil = cb.now().Add(cb.cfg.ResetTimeout)
	ts.consecutiveFailures = 0
	ts.consecutiveSuccesses = 0
}

// GetStatus returns the state and consecutive failure count for name
// without transitioning it.
func (cb *CircuitBreaker) GetStatus(name string) (State, int) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	ts, ok := cb.targets[name]
	if !ok {
		return StateClosed, 0
	}
	return ts.state, ts.consecutiveFailures
}
