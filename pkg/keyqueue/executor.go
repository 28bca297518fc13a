// Package keyqueue runs jobs in per-key FIFO order. A key with pending work
// owns one worker goroutine, started by the first Submit and ended once the
// key's queue is empty. A job that blocks therefore delays only the later
// jobs of its own key; other keys keep running in parallel.
package keyqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type queuedJob struct {
	ctx context.Context
	key string
	job Job
}

// keyQueue holds the jobs of one key that have not started yet
type keyQueue struct {
	jobs []queuedJob
}

// Executor executes Jobs on one worker goroutine per active key.
type Executor struct {
	cfg Config

	mu     sync.Mutex
	keys   map[string]*keyQueue
	closed bool

	wg sync.WaitGroup
}

// New constructs an idle executor. Workers are started on demand.
func New(cfg Config) *Executor {
	return &Executor{
		cfg:  cfg.withDefaults(),
		keys: make(map[string]*keyQueue),
	}
}

// Submit appends job to the queue of key and never waits for space.
//
//   - Returns ErrExecutorClosed once Stop was called.
//   - Returns a *QueueFullError if key already has QueueSize jobs waiting.
//   - Returns ctx.Err() if ctx is already cancelled.
func (e *Executor) Submit(ctx context.Context, key string, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrExecutorClosed
	}

	q, running := e.keys[key]
	if running && len(q.jobs) >= e.cfg.QueueSize {
		queueFullTotal.Inc()
		return &QueueFullError{Key: key, Capacity: e.cfg.QueueSize}
	}
	if !running {
		q = &keyQueue{}
		e.keys[key] = q
	}
	q.jobs = append(q.jobs, queuedJob{ctx: ctx, key: key, job: job})
	submissionsTotal.Inc()
	pendingJobs.Inc()

	if !running {
		activeKeys.Inc()
		e.wg.Add(1)
		go e.runWorker(key, q)
	}
	return nil
}

// ActiveKeys returns how many keys currently own a worker.
func (e *Executor) ActiveKeys() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.keys)
}

// Stop refuses new jobs, lets every worker drain its queue, then waits for
// them to exit. It is idempotent and safe for concurrent use.
func (e *Executor) Stop() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	active := len(e.keys)
	e.mu.Unlock()

	logrus.Infof("keyqueue: stopping executor, draining %d keys", active)
	e.wg.Wait()
	logrus.Info("keyqueue: executor stopped")
}

// Close lets Executor satisfy io.Closer.
func (e *Executor) Close() error {
	e.Stop()
	return nil
}

func (e *Executor) runWorker(key string, q *keyQueue) {
	defer e.wg.Done()

	for {
		e.mu.Lock()
		if len(q.jobs) == 0 {
			delete(e.keys, key)
			e.mu.Unlock()
			activeKeys.Dec()
			return
		}
		qj := q.jobs[0]
		q.jobs[0] = queuedJob{}
		q.jobs = q.jobs[1:]
		e.mu.Unlock()

		pendingJobs.Dec()
		e.execute(qj)
	}
}

// execute runs one job. A cancelled job is skipped and a panicking job is
// reported without taking the worker down.
func (e *Executor) execute(qj queuedJob) {
	if qj.job == nil {
		return
	}
	if err := qj.ctx.Err(); err != nil {
		e.handleError(qj.key, err)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.handleError(qj.key, fmt.Errorf("keyqueue: job panic: %v", r))
		}
	}()

	start := time.Now()
	err := qj.job.Run(qj.ctx)
	runDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		e.handleError(qj.key, err)
	}
}

func (e *Executor) handleError(key string, err error) {
	if e.cfg.ErrorHandler == nil {
		logrus.WithField("key", key).Errorf("keyqueue: job failed: %v", err)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("keyqueue: error handler panic: %v", r)
		}
	}()
	e.cfg.ErrorHandler(key, err)
}
