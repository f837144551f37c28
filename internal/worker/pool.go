package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail    = "jobs:email"
	QueueWhatsApp = "jobs:whatsapp"

	// MaxAttempts before a job is moved to the dead letter queue.
	MaxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// retryBackoff is the pause before a failed job is re-queued.
var retryBackoff = func(attempt int) time.Duration {
	return time.Duration(attempt*attempt) * 2 * time.Second
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb redis.Cmdable
}

func NewDispatcher(rdb redis.Cmdable) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

// EnqueueWhatsApp pushes a WhatsApp message job to Redis.
func (d *Dispatcher) EnqueueWhatsApp(ctx context.Context, payload WhatsAppJobPayload) error {
	return d.enqueue(ctx, QueueWhatsApp, "whatsapp", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb redis.Cmdable, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming every queue that
// has a handler. Each goroutine blocks on BRPOP, so idle workers cost nothing.
// The returned WaitGroup completes once all workers have exited after ctx is
// cancelled.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]Handler) *sync.WaitGroup {
	queues := make([]string, 0, len(handlers))
	for q := range handlers {
		queues = append(queues, q)
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, rdb, id, queues, handlers)
		}(i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", queues).Msg("worker pool started")
	return &wg
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, queues []string, handlers map[string]Handler) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

// processJob runs the handler for queue. On failure the job is re-queued with
// an incremented attempt count, or dead-lettered after MaxAttempts.
func processJob(ctx context.Context, rdb redis.Cmdable, handlers map[string]Handler, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, queue, "unknown", json.RawMessage(`null`), "invalid envelope: "+err.Error(), 0)
		return
	}

	h, ok := handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Msg("no handler registered for queue")
		return
	}

	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}

	job.Attempts++
	if job.Attempts >= MaxAttempts {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}

	log.Warn().Err(err).
		Str("queue", queue).
		Str("type", job.Type).
		Int("attempt", job.Attempts).
		Msg("job failed, re-queueing")

	select {
	case <-ctx.Done():
	case <-time.After(retryBackoff(job.Attempts)):
	}
	// Re-queue with a fresh context so a shutdown does not drop the job
	if err := push(context.Background(), rdb, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to re-queue job")
	}
}
