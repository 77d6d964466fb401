package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/openride/dispatch/internal/pkg/logger"
)

// State is the circuit breaker state.
type State int

const (
	// StateClosed allows requests to pass through
	StateClosed State = iota
	// StateOpen rejects requests immediately
	StateOpen
	// StateHalfOpen lets a limited number of probes through
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpen is returned while the breaker is rejecting requests.
var ErrOpen = errors.New("circuit breaker is open")

// Config holds circuit breaker tuning knobs.
type Config struct {
	// Name identifies the breaker in logs.
	Name string
	// FailureThreshold is the number of consecutive failures that trips
	// the breaker.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive half-open successes
	// that closes it again.
	SuccessThreshold int
	// Cooldown is how long the breaker stays open before probing.
	Cooldown time.Duration
	// IsFailure decides whether an error counts against the threshold.
	// Nil means every non-nil error counts.
	IsFailure func(err error) bool
}

// DefaultConfig returns a breaker that trips after five consecutive
// failures and probes again after thirty seconds.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 1,
		Cooldown:         30 * time.Second,
	}
}

// CircuitBreaker guards a downstream dependency: after too many
// consecutive failures calls are rejected outright until a cooldown
// elapses and a probe succeeds.
type CircuitBreaker struct {
	cfg Config

	mu           sync.Mutex
	state        State
	failures     int
	successes    int
	openedUntil  time.Time
	halfOpenBusy bool
}

// New creates a new circuit breaker
func New(cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{cfg: cfg, state: StateClosed}
}

// Execute runs fn under the breaker. While open it returns ErrOpen
// without calling fn; in half-open state a single probe is let through
// at a time.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := fn(ctx)
	cb.afterRequest(err)
	return err
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if time.Now().Before(cb.openedUntil) {
			return ErrOpen
		}
		cb.setState(StateHalfOpen)
		cb.successes = 0
		cb.halfOpenBusy = false
		fallthrough
	case StateHalfOpen:
		if cb.halfOpenBusy {
			return ErrOpen
		}
		cb.halfOpenBusy = true
	}

	return nil
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.halfOpenBusy = false

	if cb.cfg.IsFailure(err) {
		cb.failures++
		cb.successes = 0

		tripped := cb.state == StateHalfOpen ||
			(cb.state == StateClosed && cb.failures >= cb.cfg.FailureThreshold)
		if tripped {
			cb.setState(StateOpen)
			cb.openedUntil = time.Now().Add(cb.cfg.Cooldown)
		}
		return
	}

	cb.failures = 0
	if cb.state == StateHalfOpen {
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.setState(StateClosed)
		}
	}
}

func (cb *CircuitBreaker) setState(state State) {
	if cb.state == state {
		return
	}

	prev := cb.state
	cb.state = state

	logger.Warn("Circuit breaker state changed",
		logger.String("name", cb.cfg.Name),
		logger.String("from", prev.String()),
		logger.String("to", state.String()),
		logger.Int("consecutive_failures", cb.failures))
}
