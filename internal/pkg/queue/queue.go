package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrEmpty is returned by Dequeue when no job arrived before the timeout
var ErrEmpty = errors.New("queue empty")

// Job is a unit of background work
type Job struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Attempt    int             `json:"attempt"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// NewJob marshals payload into a fresh job
func NewJob(jobType string, payload any) (Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Job{}, fmt.Errorf("marshal %s payload: %w", jobType, err)
	}
	return Job{
		ID:         uuid.NewString(),
		Type:       jobType,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

type Queue interface {
	Name() string
	Enqueue(ctx context.Context, job Job) error
	Dequeue(ctx context.Context, timeout time.Duration) (Job, error)
}

type redisQueue struct {
	client *redis.Client
	name   string
}

// NewRedisQueue is a FIFO queue over a redis list (LPUSH / BRPOP)
func NewRedisQueue(client *redis.Client, name string) Queue {
	return &redisQueue{client: client, name: name}
}

func (q *redisQueue) Name() string {
	return q.name
}

func (q *redisQueue) key() string {
	return "queue:" + q.name
}

func (q *redisQueue) Enqueue(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key(), data).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", q.name, err)
	}
	return nil
}

func (q *redisQueue) Dequeue(ctx context.Context, timeout time.Duration) (Job, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Job{}, ErrEmpty
		}
		return Job{}, fmt.Errorf("dequeue %s: %w", q.name, err)
	}
	// BRPOP returns [key, value]
	if len(res) != 2 {
		return Job{}, fmt.Errorf("dequeue %s: unexpected reply length %d", q.name, len(res))
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return Job{}, fmt.Errorf("decode job: %w", err)
	}
	return job, nil
}

// Backoff returns the delay before retry number attempt (1-based): base, 2*base, 4*base...
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}
