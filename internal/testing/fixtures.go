package testing

import (
	"sync"
	"time"

	"github.com/aws/smithy-go"
)

// Epoch is a fixed start time for deterministic tests.
var Epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// APIError returns an SDK style API error with the given code and message.
func APIError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message, Fault: smithy.FaultClient}
}

// Common provider failures.
var (
	ErrNotFound   = APIError("ResourceNotFound", "Resource does not exist")
	ErrThrottling = APIError("ThrottlingException", "Rate exceeded")
	ErrInUse      = APIError("ResourceInUse", "Resource is in use")
	ErrLimit      = APIError("ResourceLimitExceeded", "The account-level service limit has been exceeded")
)

// Clock is a manually advanced clock. Safe for concurrent use.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock starting at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
