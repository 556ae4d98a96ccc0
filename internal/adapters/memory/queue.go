package memory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"conferencecentral/internal/domain"
)

// ErrQueueFull is returned by Enqueue when the buffer is exhausted.
var ErrQueueFull = errors.New("task queue is full")

var (
	_ domain.TaskQueue  = (*Queue)(nil)
	_ domain.TaskSource = (*Queue)(nil)
)

// Queue is a bounded in-process task queue. Tasks are lost on restart.
type Queue struct {
	tasks       chan *domain.Task
	pollTimeout time.Duration
}

func NewQueue(size int, pollTimeout time.Duration) *Queue {
	return &Queue{tasks: make(chan *domain.Task, size), pollTimeout: pollTimeout}
}

func (q *Queue) Enqueue(ctx context.Context, name string, params map[string]string) error {
	return q.push(&domain.Task{ID: uuid.NewString(), Name: name, Params: params, EnqueuedAt: time.Now().UTC()})
}

func (q *Queue) push(t *domain.Task) error {
	select {
	case q.tasks <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *Queue) Dequeue(ctx context.Context) (*domain.Task, error) {
	timer := time.NewTimer(q.pollTimeout)
	defer timer.Stop()
	select {
	case t := <-q.tasks:
		return t, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *Queue) Ack(context.Context, *domain.Task) error { return nil }

func (q *Queue) Retry(_ context.Context, t *domain.Task) error {
	next := *t
	next.Attempts++
	return q.push(&next)
}
