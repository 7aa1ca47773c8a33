package backoff

import (
	"time"

	"github.com/imamik/sagerec/internal/resource"
)

// State tracks one stabilization run. It is created by the first poll and
// handed back by the caller on every later invocation.
type State struct {
	StartedAt time.Time `json:"startedAt"`
	Attempt   int       `json:"attempt"`
}

// Start returns the state of a run beginning at now.
func Start(now time.Time) State {
	return State{StartedAt: now}
}

// Next returns the state after one more poll.
func (s State) Next() State {
	s.Attempt++
	return s
}

// Elapsed returns the time spent since the run started.
func (s State) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// Decision is the outcome of consulting a policy.
type Decision struct {
	Continue bool
	Delay    time.Duration
}

// Policy decides whether to keep polling.
type Policy interface {
	Next(state State, now time.Time) Decision
}

// Constant waits the same delay between polls until Timeout elapsed.
type Constant struct {
	Delay   time.Duration
	Timeout time.Duration
}

// NewConstant returns a constant policy.
func NewConstant(delay, timeout time.Duration) Constant {
	return Constant{Delay: delay, Timeout: timeout}
}

// Next implements Policy.
func (c Constant) Next(state State, now time.Time) Decision {
	if state.Elapsed(now) > c.Timeout {
		return Decision{}
	}
	return Decision{Continue: true, Delay: c.Delay}
}

// Config holds exponential backoff settings.
type Config struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Timeout      time.Duration
}

// Option is a functional option for exponential backoff configuration.
type Option func(*Config)

// Exponential grows the delay by Multiplier per attempt, capped at MaxDelay,
// until Timeout elapsed.
type Exponential struct {
	cfg Config
}

// NewExponential returns an exponential policy bounded by timeout.
func NewExponential(timeout time.Duration, opts ...Option) *Exponential {
	cfg := Config{
		InitialDelay: 5 * time.Second,
		MaxDelay:     2 * time.Minute,
		Multiplier:   2.0,
		Timeout:      timeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Exponential{cfg: cfg}
}

// WithInitialDelay sets the delay after the first poll.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithMaxDelay caps the delay between polls.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithMultiplier sets the growth factor.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		c.Multiplier = m
	}
}

// Next implements Policy.
func (e *Exponential) Next(state State, now time.Time) Decision {
	if state.Elapsed(now) > e.cfg.Timeout {
		return Decision{}
	}

	delay := e.cfg.InitialDelay
	for i := 1; i < state.Attempt; i++ {
		delay = time.Duration(float64(delay) * e.cfg.Multiplier)
		if delay >= e.cfg.MaxDelay {
			delay = e.cfg.MaxDelay
			break
		}
	}
	if delay > e.cfg.MaxDelay {
		delay = e.cfg.MaxDelay
	}
	return Decision{Continue: true, Delay: delay}
}

// Default stabilization windows, shared by all resource types.
const (
	DefaultTimeout = 60 * time.Minute
	DefaultDelay   = 2 * time.Minute
)

// Policies holds one policy per mutating operation.
type Policies struct {
	Create Policy
	Update Policy
	Delete Policy
}

// DefaultPolicies returns constant 60 minute / 2 minute policies for every
// mutating operation.
func DefaultPolicies() Policies {
	p := NewConstant(DefaultDelay, DefaultTimeout)
	return Policies{Create: p, Update: p, Delete: p}
}

// For returns the policy of op. Operations without a policy of their own
// fall back to the create policy.
func (p Policies) For(op resource.Operation) Policy {
	switch op {
	case resource.OperationUpdate:
		if p.Update != nil {
			return p.Update
		}
	case resource.OperationDelete:
		if p.Delete != nil {
			return p.Delete
		}
	}
	if p.Create != nil {
		return p.Create
	}
	return NewConstant(DefaultDelay, DefaultTimeout)
}
