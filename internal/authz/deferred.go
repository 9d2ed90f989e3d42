package authz

import (
	"context"

	"github.com/zhenzou/executors"
)

// Result carries the outcome of a deferred guarded operation.
type Result[T any] struct {
	Value T
	Err   error
}

// ExecuteGuarded submits fn to the executor pool and returns a channel that
// yields its result. The requirement is evaluated on the worker against the
// context captured at submission: by the time the task runs, the submitting
// goroutine may be serving a different tenant, and the worker may have just
// served one, so neither of those contexts can be trusted. The captured
// context is detached from the request's cancellation, since the request
// may complete before the task runs.
func ExecuteGuarded[T any](
	executor executors.ScheduledExecutor,
	ctx context.Context,
	requirement Requirement,
	fn func(ctx context.Context) (T, error),
) (<-chan Result[T], error) {
	captured := context.WithoutCancel(ctx)
	out := make(chan Result[T], 1)

	err := executor.ExecuteFunc(func(context.Context) {
		value, err := RunWithRequirement(captured, requirement, fn)
		out <- Result[T]{Value: value, Err: err}
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
