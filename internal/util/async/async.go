package async

import (
	"context"
	"errors"
	"fmt"
)

// Task is a named unit of work.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel runs tasks with at most limit of them in flight and waits for
// all of them. A limit below one runs every task at once. Failures are joined
// in task order, each prefixed with its task name.
func RunParallel(ctx context.Context, tasks []Task, limit int) error {
	if len(tasks) == 0 {
		return nil
	}
	if limit < 1 || limit > len(tasks) {
		limit = len(tasks)
	}

	type result struct {
		index int
		err   error
	}

	slots := make(chan struct{}, limit)
	results := make(chan result, len(tasks))

	for i, task := range tasks {
		go func() {
			slots <- struct{}{}
			defer func() { <-slots }()

			if err := ctx.Err(); err != nil {
				results <- result{index: i, err: err}
				return
			}
			results <- result{index: i, err: task.Func(ctx)}
		}()
	}

	errs := make([]error, len(tasks))
	for range len(tasks) {
		res := <-results
		if res.err != nil {
			errs[res.index] = fmt.Errorf("%s: %w", tasks[res.index].Name, res.err)
		}
	}
	return errors.Join(errs...)
}
