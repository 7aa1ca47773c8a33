package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParallel_Success(t *testing.T) {
	t.Parallel()

	var count atomic.Int32
	tasks := make([]Task, 5)
	for i := range tasks {
		tasks[i] = Task{Name: "task", Func: func(context.Context) error {
			count.Add(1)
			return nil
		}}
	}

	require.NoError(t, RunParallel(context.Background(), tasks, 2))
	assert.Equal(t, int32(5), count.Load())
}

func TestRunParallel_Empty(t *testing.T) {
	t.Parallel()

	assert.NoError(t, RunParallel(context.Background(), nil, 0))
}

func TestRunParallel_JoinsErrorsInOrder(t *testing.T) {
	t.Parallel()

	errA := errors.New("boom")
	tasks := []Task{
		{Name: "a", Func: func(context.Context) error { return errA }},
		{Name: "b", Func: func(context.Context) error { return nil }},
		{Name: "c", Func: func(context.Context) error { return errors.New("bang") }},
	}

	err := RunParallel(context.Background(), tasks, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, "a: boom\nc: bang", err.Error())
}

func TestRunParallel_RespectsLimit(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	release := make(chan struct{})
	tasks := make([]Task, 6)
	for i := range tasks {
		tasks[i] = Task{Name: "t", Func: func(context.Context) error {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			inFlight.Add(-1)
			return nil
		}}
	}

	done := make(chan error)
	go func() { done <- RunParallel(context.Background(), tasks, 2) }()
	close(release)

	require.NoError(t, <-done)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunParallel_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	err := RunParallel(ctx, []Task{{Name: "late", Func: func(context.Context) error {
		ran.Store(true)
		return nil
	}}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran.Load())
}
