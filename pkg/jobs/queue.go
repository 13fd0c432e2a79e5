// Package jobs runs background work on an in-memory worker pool. Each
// queue carries one payload type and one handler; failed jobs are retried
// with a fixed delay until the retry budget runs out.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one unit of queued work.
type Job[T any] struct {
	ID       string
	Payload  T
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job. A non-nil error schedules a retry.
type Handler[T any] func(context.Context, Job[T]) error

// Options tunes the worker pool. Zero values fall back to small defaults.
type Options struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.BufferSize <= 0 {
		o.BufferSize = o.Workers * 4
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Queue dispatches jobs of one payload type to a fixed set of workers.
type Queue[T any] struct {
	name    string
	handler Handler[T]
	opts    Options

	jobs    chan Job[T]
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewQueue builds a queue around the handler. Start must be called before
// the first Enqueue.
func NewQueue[T any](name string, handler Handler[T], opts Options) *Queue[T] {
	opts = opts.withDefaults()
	return &Queue[T]{
		name:    name,
		handler: handler,
		opts:    opts,
		jobs:    make(chan Job[T], opts.BufferSize),
	}
}

// Start launches the workers. Calling Start twice is a no-op.
func (q *Queue[T]) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.opts.Workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	q.started = true
	q.opts.Logger.Sugar().Infow("queue started", "queue", q.name, "workers", q.opts.Workers)
}

// Stop cancels the workers and waits for them to exit.
func (q *Queue[T]) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.opts.Logger.Sugar().Infow("queue stopped", "queue", q.name)
}

// Enqueue hands a job to the pool, blocking while the buffer is full.
func (q *Queue[T]) Enqueue(job Job[T]) error {
	q.mu.Lock()
	ctx := q.ctx
	started := q.started
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("queue %s not started", q.name)
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("queue %s stopped: %w", q.name, ctx.Err())
	case q.jobs <- job:
		return nil
	}
}

func (q *Queue[T]) work() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			if err := q.handler(q.ctx, job); err != nil {
				q.retry(job, err)
			}
		}
	}
}

// retry requeues a failed job after the delay, off the worker goroutine so
// the pool keeps draining in the meantime.
func (q *Queue[T]) retry(job Job[T], cause error) {
	job.Attempt++
	log := q.opts.Logger.Sugar()
	if job.Attempt > q.opts.MaxRetries {
		log.Errorw("job exceeded retries", "queue", q.name, "job_id", job.ID, "error", cause)
		return
	}
	log.Warnw("job failed, retrying", "queue", q.name, "job_id", job.ID, "attempt", job.Attempt, "error", cause)

	go func() {
		timer := time.NewTimer(q.opts.RetryDelay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
		case <-timer.C:
			if err := q.Enqueue(job); err != nil {
				log.Errorw("failed to requeue job", "queue", q.name, "job_id", job.ID, "error", err)
			}
		}
	}()
}
