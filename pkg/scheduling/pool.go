package scheduling

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/multimodal-labs/inference-gateway/pkg/logging"
)

const (
	// DefaultWorkers is the number of pool workers used when none is
	// configured. It bounds the number of concurrent upstream calls.
	DefaultWorkers = 4
	// DefaultTaskTimeout is the per-task deadline used when none is
	// configured. It releases a worker occupied by a hung upstream call.
	DefaultTaskTimeout = 120 * time.Second
)

// Task is a unit of work submitted to the pool.
type Task func(ctx context.Context) (any, error)

// taskResult carries a task's outcome back to its submitter.
type taskResult struct {
	value any
	err   error
}

// submission pairs a task with the channel its result is delivered on.
type submission struct {
	// ctx is the submitter's request context.
	ctx context.Context
	// task is the work to execute.
	task Task
	// done receives the task's result. It is buffered so a worker never
	// blocks on a submitter that has given up.
	done chan taskResult
}

// Config parametrizes a Pool.
type Config struct {
	// Workers is the number of workers, DefaultWorkers when non-positive.
	Workers int
	// TaskTimeout is the per-task deadline, DefaultTaskTimeout when zero.
	// Negative disables the deadline.
	TaskTimeout time.Duration
}

// Pool executes tasks on a fixed number of workers so that slow upstream
// calls cannot occupy more than Workers concurrent slots.
type Pool struct {
	// log is the associated logger.
	log logging.Logger
	// workers is the number of workers.
	workers int
	// taskTimeout is the per-task deadline, zero for none.
	taskTimeout time.Duration
	// queue carries submissions to the workers.
	queue chan *submission
}

// NewPool creates a new worker pool. Run must be called for submitted tasks
// to execute.
func NewPool(log logging.Logger, config Config) *Pool {
	workers := config.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	timeout := config.TaskTimeout
	if timeout == 0 {
		timeout = DefaultTaskTimeout
	} else if timeout < 0 {
		timeout = 0
	}
	return &Pool{
		log:         log,
		workers:     workers,
		taskTimeout: timeout,
		queue:       make(chan *submission),
	}
}

// Workers returns the pool's worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Run starts the workers and blocks until ctx is canceled and all workers
// have returned.
func (p *Pool) Run(ctx context.Context) error {
	p.log.Infof("Starting %d workers", p.workers)
	group, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		group.Go(func() error {
			p.work(ctx)
			return nil
		})
	}
	return group.Wait()
}

// work is a single worker loop.
func (p *Pool) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case sub := <-p.queue:
			p.execute(sub)
		}
	}
}

// execute runs one submission under the pool's task deadline.
func (p *Pool) execute(sub *submission) {
	ctx := sub.ctx
	if p.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.taskTimeout)
		defer cancel()
	}
	value, err := sub.task(ctx)
	sub.done <- taskResult{value: value, err: err}
}

// Submit enqueues a task and waits for its result. It returns the context's
// error if the request is abandoned while queued or executing.
func (p *Pool) Submit(ctx context.Context, task Task) (any, error) {
	sub := &submission{
		ctx:  ctx,
		task: task,
		done: make(chan taskResult, 1),
	}
	select {
	case p.queue <- sub:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case result := <-sub.done:
		return result.value, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
