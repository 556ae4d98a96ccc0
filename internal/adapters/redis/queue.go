package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"conferencecentral/internal/domain"
)

const (
	pendingSuffix    = "pending"
	processingSuffix = "processing"
)

var (
	_ domain.TaskQueue  = (*Queue)(nil)
	_ domain.TaskSource = (*Queue)(nil)
)

// Queue is a reliable list queue: producers LPUSH onto the pending list and a
// consumer atomically moves each payload to the processing list, where it
// stays until acknowledged. One consumer process per prefix is assumed.
type Queue struct {
	client      goredis.UniversalClient
	pending     string
	processing  string
	pollTimeout time.Duration

	mu       sync.Mutex
	inflight map[string]string // task id -> raw payload in the processing list
}

// NewQueue returns a queue using "<prefix>:pending" and "<prefix>:processing".
func NewQueue(client goredis.UniversalClient, prefix string, pollTimeout time.Duration) *Queue {
	return &Queue{
		client:      client,
		pending:     prefix + ":" + pendingSuffix,
		processing:  prefix + ":" + processingSuffix,
		pollTimeout: pollTimeout,
		inflight:    make(map[string]string),
	}
}

func (q *Queue) Enqueue(ctx context.Context, name string, params map[string]string) error {
	t := &domain.Task{
		ID:         uuid.NewString(),
		Name:       name,
		Params:     params,
		EnqueuedAt: time.Now().UTC(),
	}
	return q.push(ctx, t)
}

func (q *Queue) push(ctx context.Context, t *domain.Task) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	if err := q.client.LPush(ctx, q.pending, raw).Err(); err != nil {
		return fmt.Errorf("push task: %w", err)
	}
	return nil
}

func (q *Queue) Dequeue(ctx context.Context) (*domain.Task, error) {
	raw, err := q.client.BRPopLPush(ctx, q.pending, q.processing, q.pollTimeout).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := &domain.Task{}
	if err := json.Unmarshal([]byte(raw), t); err != nil {
		// Undecodable payloads are dropped.
		err = fmt.Errorf("decode task: %w", err)
		if remErr := q.client.LRem(ctx, q.processing, 1, raw).Err(); remErr != nil {
			return nil, errors.Join(err, fmt.Errorf("drop undecodable task: %w", remErr))
		}
		return nil, err
	}
	q.mu.Lock()
	q.inflight[t.ID] = raw
	q.mu.Unlock()
	return t, nil
}

func (q *Queue) Ack(ctx context.Context, t *domain.Task) error {
	raw, ok := q.take(t.ID)
	if !ok {
		return fmt.Errorf("%w: task %s is not in flight", domain.ErrNotFound, t.ID)
	}
	return q.client.LRem(ctx, q.processing, 1, raw).Err()
}

// Retry removes the task from the processing list and re-queues it with
// Attempts incremented, in one MULTI/EXEC.
func (q *Queue) Retry(ctx context.Context, t *domain.Task) error {
	raw, ok := q.take(t.ID)
	if !ok {
		return fmt.Errorf("%w: task %s is not in flight", domain.ErrNotFound, t.ID)
	}
	next := *t
	next.Attempts++
	payload, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	_, err = q.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LRem(ctx, q.processing, 1, raw)
		pipe.LPush(ctx, q.pending, payload)
		return nil
	})
	return err
}

// Recover moves tasks left in the processing list by a crashed consumer back
// to the pending list. It returns how many tasks were moved.
func (q *Queue) Recover(ctx context.Context) (int, error) {
	n := 0
	for {
		err := q.client.RPopLPush(ctx, q.processing, q.pending).Err()
		if errors.Is(err, goredis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

// Len returns the number of pending tasks.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.pending).Result()
}

func (q *Queue) take(id string) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	raw, ok := q.inflight[id]
	delete(q.inflight, id)
	return raw, ok
}
