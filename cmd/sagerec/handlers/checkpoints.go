package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/sagerec/internal/util/async"
)

// clearConcurrency bounds parallel deletes against the checkpoint store.
const clearConcurrency = 8

// CheckpointOptions are the flags of the checkpoints command.
type CheckpointOptions struct {
	// Clear removes the given keys, or every checkpoint with All.
	Clear []string
	All   bool
}

// Checkpoints lists pending checkpoints or removes them.
func Checkpoints(ctx context.Context, opts *Options, co CheckpointOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	keys := co.Clear
	if co.All || len(keys) == 0 {
		listed, err := store.List(ctx)
		if err != nil {
			return err
		}
		if !co.All {
			if opts.JSON {
				return printJSON(listed)
			}
			for _, key := range listed {
				cp, err := store.Load(ctx, key)
				if err != nil {
					return err
				}
				if cp == nil {
					continue
				}
				fmt.Fprintf(stdout, "%s\t%s\t%s\tinvocations=%d\tsaved=%s\n",
					key, cp.TypeName, cp.Operation, cp.Invocations, cp.SavedAt.Format(time.RFC3339))
			}
			return nil
		}
		keys = listed
	}

	tasks := make([]async.Task, 0, len(keys))
	for _, key := range keys {
		tasks = append(tasks, async.Task{Name: key, Func: func(ctx context.Context) error {
			return store.Clear(ctx, key)
		}})
	}
	if err := async.RunParallel(ctx, tasks, clearConcurrency); err != nil {
		return fmt.Errorf("failed to clear checkpoints: %w", err)
	}
	for _, key := range keys {
		fmt.Fprintf(stdout, "Cleared %s\n", key)
	}
	return nil
}
