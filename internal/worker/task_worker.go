package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"conferencecentral/internal/domain"
)

// TaskWorkerConfig controls retries and error backoff.
type TaskWorkerConfig struct {
	// MaxAttempts is the number of times a task runs before it is dropped.
	MaxAttempts  int
	ErrorBackoff time.Duration
}

// DefaultTaskWorkerConfig returns the default worker configuration.
func DefaultTaskWorkerConfig() *TaskWorkerConfig {
	return &TaskWorkerConfig{
		MaxAttempts:  5,
		ErrorBackoff: time.Second,
	}
}

// TaskWorkerStats is a snapshot of worker counters.
type TaskWorkerStats struct {
	Succeeded int64
	Retried   int64
	Dropped   int64
}

// TaskWorker pulls tasks from a source and dispatches them by name.
type TaskWorker struct {
	source   domain.TaskSource
	handlers map[string]domain.TaskHandler
	metrics  *Metrics
	logger   *slog.Logger
	config   *TaskWorkerConfig

	succeeded atomic.Int64
	retried   atomic.Int64
	dropped   atomic.Int64
}

// NewTaskWorker creates a worker. A nil config uses DefaultTaskWorkerConfig.
func NewTaskWorker(source domain.TaskSource, handlers map[string]domain.TaskHandler, metrics *Metrics, logger *slog.Logger, config *TaskWorkerConfig) *TaskWorker {
	if config == nil {
		config = DefaultTaskWorkerConfig()
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &TaskWorker{
		source:   source,
		handlers: handlers,
		metrics:  metrics,
		logger:   logger,
		config:   config,
	}
}

// Run processes tasks until ctx is cancelled.
func (w *TaskWorker) Run(ctx context.Context) error {
	w.logger.Info("task worker started", "max_attempts", w.config.MaxAttempts)
	for {
		if ctx.Err() != nil {
			w.logger.Info("task worker stopped")
			return nil
		}
		task, err := w.source.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.ErrorContext(ctx, "dequeue task failed", "err", err)
			select {
			case <-ctx.Done():
			case <-time.After(w.config.ErrorBackoff):
			}
			continue
		}
		if task == nil {
			continue
		}
		w.Process(ctx, task)
	}
}

// Process runs one task and acknowledges, retries or drops it.
func (w *TaskWorker) Process(ctx context.Context, task *domain.Task) {
	logger := w.logger.With("task", task.Name, "task_id", task.ID, "attempt", task.Attempts+1)

	handler, ok := w.handlers[task.Name]
	if !ok {
		logger.ErrorContext(ctx, "no handler for task")
		w.record(task.Name, OutcomeUnknown)
		w.dropped.Add(1)
		w.ack(ctx, logger, task)
		return
	}

	start := time.Now()
	err := handler(ctx, task.Params)
	if w.metrics != nil {
		w.metrics.TaskDuration.WithLabelValues(task.Name).Observe(time.Since(start).Seconds())
	}

	switch {
	case err == nil:
		w.record(task.Name, OutcomeSucceeded)
		w.succeeded.Add(1)
		w.ack(ctx, logger, task)
	case task.Attempts+1 < w.config.MaxAttempts:
		logger.WarnContext(ctx, "task failed, retrying", "err", err)
		w.record(task.Name, OutcomeRetried)
		w.retried.Add(1)
		if rerr := w.source.Retry(ctx, task); rerr != nil {
			logger.ErrorContext(ctx, "retry task failed", "err", rerr)
		}
	default:
		logger.ErrorContext(ctx, "task failed, giving up", "err", err)
		w.record(task.Name, OutcomeDropped)
		w.dropped.Add(1)
		w.ack(ctx, logger, task)
	}
}

func (w *TaskWorker) ack(ctx context.Context, logger *slog.Logger, task *domain.Task) {
	if err := w.source.Ack(ctx, task); err != nil {
		logger.ErrorContext(ctx, "ack task failed", "err", err)
	}
}

func (w *TaskWorker) record(name, outcome string) {
	if w.metrics != nil {
		w.metrics.TasksProcessed.WithLabelValues(name, outcome).Inc()
	}
}

// GetStats returns the worker counters.
func (w *TaskWorker) GetStats() TaskWorkerStats {
	return TaskWorkerStats{
		Succeeded: w.succeeded.Load(),
		Retried:   w.retried.Load(),
		Dropped:   w.dropped.Load(),
	}
}
