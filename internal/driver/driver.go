package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/sagerec/internal/checkpoint"
	"github.com/imamik/sagerec/internal/resources"
)

// ErrInvocationLimit is returned when the handler is still in progress after
// the maximum number of invocations.
var ErrInvocationLimit = errors.New("invocation limit reached")

// Config holds driver configuration.
type Config struct {
	MaxInvocations int
	// MaxDelay caps the callback delay requested by the handler. Zero means
	// no cap.
	MaxDelay time.Duration
	Store    checkpoint.Store
	Key      string
	Sleep    func(ctx context.Context, d time.Duration) error
	Now      func() time.Time
}

// Option is a functional option for driver configuration.
type Option func(*Config)

// WithMaxInvocations sets how many times the handler may be called in one
// run. Calls made by earlier runs of a resumed checkpoint do not count.
func WithMaxInvocations(n int) Option {
	return func(c *Config) {
		c.MaxInvocations = n
	}
}

// WithMaxDelay caps the wait between invocations.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithCheckpoint persists in-progress results in store under key.
func WithCheckpoint(store checkpoint.Store, key string) Option {
	return func(c *Config) {
		c.Store = store
		c.Key = key
	}
}

// WithSleep replaces the context aware sleep between invocations.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Config) {
		c.Sleep = sleep
	}
}

// WithClock sets the time source used for checkpoint timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// Run drives req to a terminal result. Operation failures are reported in
// the returned response; the error is only set when the loop itself could
// not finish (checkpoint I/O, cancellation, invocation limit).
func Run(ctx context.Context, h resources.Handler, req resources.Request, opts ...Option) (resources.Response, error) {
	cfg := &Config{
		MaxInvocations: 1000,
		Sleep:          sleep,
		Now:            time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	persist := cfg.Store != nil && req.Operation.Mutating()
	runID := ulid.Make().String()
	invocations := 0

	if persist {
		cp, err := cfg.Store.Load(ctx, cfg.Key)
		if err != nil {
			return resources.Response{}, err
		}
		if cp != nil && cp.Operation == req.Operation && cp.TypeName == h.TypeName() {
			runID = cp.RunID
			invocations = cp.Invocations
			if len(cp.Model) > 0 {
				req.Document = cp.Model
			}
			req.Progress = cp.Progress
		}
	}

	logger := log.FromContext(ctx).WithValues("run", runID, "type", h.TypeName(), "operation", req.Operation)
	ctx = log.IntoContext(ctx, logger)
	if invocations > 0 {
		logger.Info("resuming from checkpoint", "invocations", invocations)
	}

	var res resources.Response
	for calls := 1; ; calls++ {
		invocations++

		res = h.Handle(ctx, req)
		if res.Done() {
			if persist {
				if err := cfg.Store.Clear(ctx, cfg.Key); err != nil {
					return res, err
				}
			}
			logger.V(1).Info("operation finished", "status", res.Status, "invocations", invocations)
			return res, nil
		}

		if persist {
			err := cfg.Store.Save(ctx, cfg.Key, &checkpoint.Checkpoint{
				RunID:       runID,
				Operation:   req.Operation,
				TypeName:    h.TypeName(),
				Model:       res.Model,
				Progress:    res.Progress,
				Invocations: invocations,
				SavedAt:     cfg.Now().UTC(),
			})
			if err != nil {
				return res, err
			}
		}

		if calls >= cfg.MaxInvocations {
			return res, fmt.Errorf("%w after %d calls", ErrInvocationLimit, calls)
		}

		delay := time.Duration(res.DelaySeconds) * time.Second
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
		logger.Info("operation in progress", "delay", delay.String(), "throttled", res.ErrorCode != "")

		if err := cfg.Sleep(ctx, delay); err != nil {
			return res, fmt.Errorf("interrupted after %d calls: %w", invocations, err)
		}

		if len(res.Model) > 0 {
			req.Document = res.Model
		}
		req.Progress = res.Progress
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
