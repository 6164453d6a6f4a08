package breaker

import (
	"sync"
	"time"
)

type State int

const (
	StateClosed   State = iota // Endpoint considered healthy
	StateOpen                  // Failure threshold reached
	StateHalfOpen              // Cooldown elapsed, next outcome decides
)

// Breaker counts consecutive probe failures against the resolved endpoint
// and trips once the threshold is reached. After the cooldown it admits a
// trial outcome: a success closes it, another failure reopens it.
type Breaker struct {
	mutex       sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	threshold   int
	cooldown    time.Duration
}

func New(threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		state:     StateClosed,
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// Allow reports whether an outcome should currently be acted on. While
// open and inside the cooldown window, failures are already accounted for
// and callers should hold off.
func (b *Breaker) Allow() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(b.lastFailure) >= b.cooldown {
			b.state = StateHalfOpen
			return true
		}
		return false
	case StateHalfOpen:
		return true
	default:
		return true
	}
}

// RecordFailure notes a failed probe. It returns true exactly when this
// failure trips the breaker from a non-open state to open.
func (b *Breaker) RecordFailure() (tripped bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.failures++
	b.lastFailure = time.Now()

	if b.state == StateHalfOpen {
		b.state = StateOpen
		return true
	}

	if b.state == StateClosed && b.failures >= b.threshold {
		b.state = StateOpen
		return true
	}

	return false
}

// RecordSuccess resets the failure count and closes the breaker.
func (b *Breaker) RecordSuccess() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.failures = 0
	b.state = StateClosed
}

func (b *Breaker) State() State {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.state
}

func (b *Breaker) Failures() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.failures
}

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF-OPEN"
	default:
		return "UNKNOWN"
	}
}
