package domain

import (
	"context"
	"time"
)

// Background task names and their parameters.
const (
	TaskReviewSpeakers        = "review_speakers_for_sessions"
	TaskSendConfirmationEmail = "send_confirmation_email"

	TaskParamConferenceKey  = "c_key_str"
	TaskParamEmail          = "email"
	TaskParamConferenceInfo = "conferenceInfo"
)

// Task is a named unit of background work. Delivery is at-least-once and unordered.
type Task struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Params     map[string]string `json:"params"`
	Attempts   int               `json:"attempts"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

// TaskQueue accepts tasks for asynchronous execution.
type TaskQueue interface {
	Enqueue(ctx context.Context, name string, params map[string]string) error
}

// TaskSource hands tasks to a worker. Dequeue returns (nil, nil) when nothing
// arrived before its internal poll timeout.
type TaskSource interface {
	Dequeue(ctx context.Context) (*Task, error)
	// Ack removes a finished task.
	Ack(ctx context.Context, t *Task) error
	// Retry puts a failed task back with Attempts incremented.
	Retry(ctx context.Context, t *Task) error
}

// TaskHandler executes one task's parameters.
type TaskHandler func(ctx context.Context, params map[string]string) error
