package async

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultQueueSize is the number of jobs that can wait behind the running one
// before Dispatch blocks.
const DefaultQueueSize = 32

type queuedJob struct {
	ctx context.Context
	job func(ctx context.Context) error
}

// Queue runs jobs one at a time on a single worker goroutine, in the order
// they were dispatched.
type Queue struct {
	jobs chan queuedJob
	done chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts the worker. size is the buffer of waiting jobs.
func NewQueue(size int) *Queue {
	if size < 0 {
		size = 0
	}
	q := &Queue{
		jobs: make(chan queuedJob, size),
		done: make(chan struct{}),
	}
	go q.work()
	return q
}

// Dispatch queues job. The job runs on a background context that keeps the
// caller's logger, tagged with the job name and a fresh job_id, so cancelling
// ctx does not affect it. Panics and returned errors are logged. Jobs
// dispatched after Close are dropped with an error log.
func (q *Queue) Dispatch(ctx context.Context, name string, job func(ctx context.Context) error) {
	jobCtx := newBackgroundContext(ctx, name)

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		ctxlog.From(jobCtx).Error("queue is closed, job dropped")
		return
	}
	q.jobs <- queuedJob{ctx: jobCtx, job: job}
}

// Close stops accepting jobs and waits until every queued job has finished
// or ctx is done.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "background jobs still running",
			goerr.V("queued", len(q.jobs)))
	}
}

func (q *Queue) work() {
	defer close(q.done)
	for j := range q.jobs {
		run(j.ctx, j.job)
	}
}

func run(ctx context.Context, job func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.From(ctx).Error("panic in background job",
				"recover", r,
				"stack", string(debug.Stack()))
		}
	}()

	if err := job(ctx); err != nil {
		ctxlog.From(ctx).Error("background job failed", "error", err)
	}
}

func newBackgroundContext(ctx context.Context, name string) context.Context {
	logger := ctxlog.From(ctx).With("job", name, "job_id", uuid.NewString())
	return ctxlog.With(context.Background(), logger)
}
