package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/imamik/sagerec/internal/checkpoint"
	"github.com/imamik/sagerec/internal/driver"
	"github.com/imamik/sagerec/internal/engine"
	"github.com/imamik/sagerec/internal/resource"
	"github.com/imamik/sagerec/internal/resources"
)

// stdin is read when the document path is "-".
var stdin io.Reader = os.Stdin

// ResourceOptions are the flags of create, read, update and delete.
type ResourceOptions struct {
	TypeName string
	File     string
	// MaxDelay caps the wait between polls.
	MaxDelay time.Duration
	// Once makes a single engine invocation and reports in-progress results
	// instead of waiting.
	Once bool
}

// Resource runs op on the document in ro.File until it reaches a terminal
// result. A failed operation is returned as an error after the result is
// printed.
func Resource(ctx context.Context, opts *Options, op resource.Operation, ro ResourceOptions) error {
	doc, err := readDocument(ro.File)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	metrics := metricsPath(opts, cfg)

	rt, err := newRuntime(ctx, cfg, metrics != "")
	if err != nil {
		return err
	}
	h, err := rt.Registry.Get(ro.TypeName)
	if err != nil {
		return err
	}
	if op.Mutating() {
		if err := rt.prepareStore(ctx); err != nil {
			return err
		}
	}

	driverOpts := []driver.Option{driver.WithCheckpoint(rt.Store, checkpoint.Key(ro.TypeName, op, doc))}
	if ro.MaxDelay > 0 {
		driverOpts = append(driverOpts, driver.WithMaxDelay(ro.MaxDelay))
	}
	if ro.Once {
		driverOpts = append(driverOpts, driver.WithMaxInvocations(1))
	}

	res, runErr := driver.Run(commandContext(ctx), h, resources.Request{Operation: op, Document: doc}, driverOpts...)
	if err := writeMetrics(metrics); err != nil {
		return err
	}
	if runErr != nil && !(ro.Once && errors.Is(runErr, driver.ErrInvocationLimit)) {
		return runErr
	}

	if err := printResponse(res, opts.JSON); err != nil {
		return err
	}
	if res.Status == engine.StatusFailed {
		return errors.New(res.Message)
	}
	return nil
}

func readDocument(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("a desired-state document is required (--file)")
	}
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read document from stdin: %w", err)
		}
		return data, nil
	}
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}
