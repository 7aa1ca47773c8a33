package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/imamik/sagerec/internal/driver"
	"github.com/imamik/sagerec/internal/engine"
	"github.com/imamik/sagerec/internal/resource"
	"github.com/imamik/sagerec/internal/resources"
)

// ListOptions are the flags of the list command.
type ListOptions struct {
	TypeName string
	// File optionally holds a scope document, such as a DomainId for user
	// profiles.
	File      string
	NextToken string
	All       bool
}

// List prints one page of resources, or every page with lo.All.
func List(ctx context.Context, opts *Options, lo ListOptions) error {
	var scope []byte
	if lo.File != "" {
		var err error
		if scope, err = readDocument(lo.File); err != nil {
			return err
		}
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
	h, err := rt.Registry.Get(lo.TypeName)
	if err != nil {
		return err
	}

	ctx = commandContext(ctx)
	var models []json.RawMessage
	token := lo.NextToken
	for {
		res, err := driver.Run(ctx, h, resources.Request{
			Operation: resource.OperationList,
			Document:  scope,
			NextToken: token,
		})
		if err != nil {
			return err
		}
		if res.Status == engine.StatusFailed {
			return errors.New(res.Message)
		}
		models = append(models, res.Models...)
		token = res.NextToken
		if !lo.All || token == "" {
			break
		}
	}

	if err := writeMetrics(metrics); err != nil {
		return err
	}
	return printList(lo.TypeName, models, token, opts.JSON)
}
