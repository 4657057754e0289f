package processor

import (
	"errors"
	"sync"
	"time"

	"github.com/kevin07696/cardvault-gateway/pkg/timeutil"
)

// CircuitState represents the current state of the circuit breaker
type CircuitState int

const (
	// StateClosed - requests flow normally
	StateClosed CircuitState = iota
	// StateOpen - requests fail immediately
	StateOpen
	// StateHalfOpen - a probe request is testing whether the processor recovered
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var (
	// ErrCircuitOpen is returned when the processor circuit is open
	ErrCircuitOpen = errors.New("processor circuit breaker is open")
	// ErrTooManyRequests is returned when the half-open probe slots are taken
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// CircuitBreakerConfig configures circuit breaker behavior
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive transport failures before opening
	MaxFailures uint32
	// Timeout is how long the circuit stays open before a probe is allowed
	Timeout time.Duration
	// MaxRequestsHalfOpen is the number of concurrent probes allowed in half-open
	MaxRequestsHalfOpen uint32
	// OnStateChange is called with the new state, under the breaker's lock
	OnStateChange func(CircuitState)
}

// DefaultCircuitBreakerConfig returns sensible defaults
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures:         5,
		Timeout:             30 * time.Second,
		MaxRequestsHalfOpen: 1,
	}
}

// CircuitBreaker stops calling the processor after repeated transport failures.
// Declines are not failures; only calls that did not complete count.
type CircuitBreaker struct {
	mu               sync.Mutex
	state            CircuitState
	failures         uint32
	requestsHalfOpen uint32
	changedAt        time.Time
	config           CircuitBreakerConfig
	now              timeutil.Clock
}

// NewCircuitBreaker creates a closed circuit breaker
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		state:     StateClosed,
		changedAt: timeutil.Now(),
		config:    config,
		now:       timeutil.Now,
	}
}

// Call runs fn if the circuit allows it and records the outcome.
// A *requestRejected error says nothing about processor health and is recorded as success.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if err := cb.allow(); err != nil {
		return err
	}

	err := fn()

	var rejected *requestRejected
	if errors.As(err, &rejected) {
		cb.record(nil)
	} else {
		cb.record(err)
	}
	return err
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil

	case StateOpen:
		if cb.now().Sub(cb.changedAt) < cb.config.Timeout {
			return ErrCircuitOpen
		}
		cb.transition(StateHalfOpen)
		cb.requestsHalfOpen++
		return nil

	case StateHalfOpen:
		if cb.requestsHalfOpen >= cb.config.MaxRequestsHalfOpen {
			return ErrTooManyRequests
		}
		cb.requestsHalfOpen++
		return nil

	default:
		return ErrCircuitOpen
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		if cb.state == StateHalfOpen {
			cb.transition(StateClosed)
		}
		cb.failures = 0
		return
	}

	cb.failures++
	switch cb.state {
	case StateClosed:
		if cb.failures >= cb.config.MaxFailures {
			cb.transition(StateOpen)
		}
	case StateHalfOpen:
		cb.transition(StateOpen)
	}
}

func (cb *CircuitBreaker) transition(next CircuitState) {
	if cb.state == next {
		return
	}

	cb.state = next
	cb.changedAt = cb.now()
	cb.requestsHalfOpen = 0
	if next != StateOpen {
		cb.failures = 0
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(next)
	}
}

// State returns the current circuit state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the current consecutive failure count
func (cb *CircuitBreaker) Failures() uint32 {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}
