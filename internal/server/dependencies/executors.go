package dependencies

import (
	"context"
	"reflect"

	"github.com/zhenzou/executors"

	"github.com/facturio/facturio/internal/log"
)

// ExecutorConfig sizes the shared worker pool used for deferred guarded
// operations and scheduled jobs.
type ExecutorConfig struct {
	MaxConcurrent    int `conf:"max_concurrent"     yaml:"max_concurrent"     json:"max_concurrent"`
	MaxBlockingTasks int `conf:"max_blocking_tasks" yaml:"max_blocking_tasks" json:"max_blocking_tasks"`
}

type ErrorHandler struct{}

func (h *ErrorHandler) CatchError(runnable executors.Runnable, err error) {
	log.Error(context.Background(), "run runnable error", log.Cause(err))
}

type RejectionHandler struct{}

func (h *RejectionHandler) RejectExecution(runnable executors.Runnable, e executors.Executor) error {
	log.Error(context.Background(), "runnable rejection by executor", log.String("runnable", reflect.ValueOf(runnable).String()))
	return nil
}

func NewExecutors(config ExecutorConfig, logger *log.Logger) executors.ScheduledExecutor {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 64
	}

	if config.MaxBlockingTasks <= 0 {
		config.MaxBlockingTasks = 1024
	}

	return executors.NewPoolScheduleExecutor(
		executors.WithMaxConcurrent(config.MaxConcurrent),
		executors.WithMaxBlockingTasks(config.MaxBlockingTasks),
		executors.WithErrorHandler(&ErrorHandler{}),
		executors.WithRejectionHandler(&RejectionHandler{}),
		executors.WithLogger(logger.AsSlog()),
	)
}
