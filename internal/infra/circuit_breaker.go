package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CircuitBreaker guards calls to an unreliable dependency (the SMTP relay).
// Closed lets calls through; after FailureThreshold consecutive failures it
// opens and fails fast; once OpenTimeout has passed it half-opens and lets
// one trial call through at a time until SuccessThreshold of them succeed.

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the breaker is open, or
// half-open with a trial call already in flight.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

// DefaultCBConfig returns the settings used for the mail relay.
func DefaultCBConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

type CircuitBreaker struct {
	mu        sync.Mutex
	cfg       CircuitBreakerConfig
	state     CBState
	failures  int
	successes int
	openedAt  time.Time
	trial     bool // a half-open call is in flight
	now       func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed, now: time.Now}
}

// State reports the current state, moving open to half-open when the open
// timeout has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentLocked()
}

func (cb *CircuitBreaker) currentLocked() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.OpenTimeout {
		cb.transitionLocked(CBHalfOpen)
	}
	return cb.state
}

// Execute runs fn unless the breaker is open and records the outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	state := cb.currentLocked()
	if state == CBOpen || (state == CBHalfOpen && cb.trial) {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	if state == CBHalfOpen {
		cb.trial = true
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if state == CBHalfOpen {
		cb.trial = false
	}
	if err != nil {
		cb.failures++
		cb.successes = 0
		if cb.state == CBHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
			cb.openedAt = cb.now()
			cb.transitionLocked(CBOpen)
		}
		return err
	}

	switch cb.state {
	case CBClosed:
		cb.failures = 0
	case CBHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.transitionLocked(CBClosed)
		}
	}
	return nil
}

func (cb *CircuitBreaker) transitionLocked(to CBState) {
	if cb.state == to {
		return
	}
	log.Warn().
		Str("breaker", cb.cfg.Name).
		Str("from", cb.state.String()).
		Str("to", to.String()).
		Msg("circuit breaker state change")
	cb.state = to
	cb.failures = 0
	cb.successes = 0
}
