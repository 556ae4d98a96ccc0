package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/adapters/memory"
	"conferencecentral/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingSource struct {
	acked   []*domain.Task
	retried []*domain.Task
}

func (s *recordingSource) Dequeue(ctx context.Context) (*domain.Task, error) { return nil, nil }

func (s *recordingSource) Ack(_ context.Context, t *domain.Task) error {
	s.acked = append(s.acked, t)
	return nil
}

func (s *recordingSource) Retry(_ context.Context, t *domain.Task) error {
	s.retried = append(s.retried, t)
	return nil
}

func TestDefaultTaskWorkerConfig(t *testing.T) {
	config := DefaultTaskWorkerConfig()
	assert.Equal(t, 5, config.MaxAttempts)
	assert.Equal(t, time.Second, config.ErrorBackoff)

	w := NewTaskWorker(&recordingSource{}, nil, nil, discardLogger(), nil)
	assert.Equal(t, 5, w.config.MaxAttempts)

	w = NewTaskWorker(&recordingSource{}, nil, nil, discardLogger(), &TaskWorkerConfig{MaxAttempts: 0})
	assert.Equal(t, 1, w.config.MaxAttempts)
}

func TestTaskWorker_Process(t *testing.T) {
	failing := errors.New("boom")
	tests := []struct {
		name        string
		task        *domain.Task
		handlerErr  error
		wantAcked   int
		wantRetried int
		wantOutcome string
	}{
		{name: "success acks", task: &domain.Task{ID: "1", Name: "job"}, wantAcked: 1, wantOutcome: OutcomeSucceeded},
		{name: "failure retries", task: &domain.Task{ID: "2", Name: "job"}, handlerErr: failing, wantRetried: 1, wantOutcome: OutcomeRetried},
		{name: "last attempt drops", task: &domain.Task{ID: "3", Name: "job", Attempts: 2}, handlerErr: failing, wantAcked: 1, wantOutcome: OutcomeDropped},
		{name: "unknown task drops", task: &domain.Task{ID: "4", Name: "mystery"}, wantAcked: 1, wantOutcome: OutcomeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &recordingSource{}
			metrics := NewMetrics(prometheus.NewRegistry())
			handlers := map[string]domain.TaskHandler{
				"job": func(context.Context, map[string]string) error { return tt.handlerErr },
			}
			w := NewTaskWorker(source, handlers, metrics, discardLogger(), &TaskWorkerConfig{MaxAttempts: 3})

			w.Process(context.Background(), tt.task)

			assert.Len(t, source.acked, tt.wantAcked)
			assert.Len(t, source.retried, tt.wantRetried)
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TasksProcessed.WithLabelValues(tt.task.Name, tt.wantOutcome)))
		})
	}
}

func TestTaskWorker_RunRetriesUntilSuccess(t *testing.T) {
	queue := memory.NewQueue(10, 10*time.Millisecond)
	var calls atomic.Int32
	handlers := map[string]domain.TaskHandler{
		domain.TaskReviewSpeakers: func(_ context.Context, params map[string]string) error {
			if calls.Add(1) < 3 {
				return errors.New("transient")
			}
			if params[domain.TaskParamConferenceKey] != "abc" {
				return errors.New("params lost on retry")
			}
			return nil
		},
	}
	w := NewTaskWorker(queue, handlers, nil, discardLogger(), &TaskWorkerConfig{MaxAttempts: 5, ErrorBackoff: time.Millisecond})

	require.NoError(t, queue.Enqueue(context.Background(), domain.TaskReviewSpeakers, map[string]string{
		domain.TaskParamConferenceKey: "abc",
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return w.GetStats().Succeeded == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	stats := w.GetStats()
	assert.Equal(t, int64(2), stats.Retried)
	assert.Zero(t, stats.Dropped)
}

type countingAnnouncements struct {
	calls atomic.Int32
	err   error
}

func (c *countingAnnouncements) CacheAnnouncement(context.Context) (string, error) {
	c.calls.Add(1)
	return "", c.err
}

func (c *countingAnnouncements) GetAnnouncement(context.Context) (string, error) { return "", nil }

func TestAnnouncer_Run(t *testing.T) {
	svc := &countingAnnouncements{err: errors.New("db down")}
	metrics := NewMetrics(prometheus.NewRegistry())
	a := NewAnnouncer(svc, 5*time.Millisecond, metrics, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return svc.calls.Load() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.AnnouncementRuns.WithLabelValues("error")), 3.0)
}
