package session

import (
	"context"
	"sync/atomic"
)

// Task is one in-flight recipe fetch.
type Task struct {
	ID string

	cancel   context.CancelFunc
	done     chan struct{}
	canceled atomic.Bool
}

// Done is closed after the task has published its outcome.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel stops the provider call. The task still publishes, clearing the
// loading flag without setting an error message.
func (t *Task) Cancel() {
	t.canceled.Store(true)
	t.cancel()
}

func (t *Task) Canceled() bool {
	return t.canceled.Load()
}

// Wait blocks until the task is done or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
