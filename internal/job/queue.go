// Package job runs pipeline jobs on a bounded pool of workers.
package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("job queue is closed")

type pathLock struct {
	mu   sync.Mutex
	refs int
}

// Queue dispatches jobs to a fixed number of workers
type Queue struct {
	logger  logger.Logger
	pending chan *Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	closeMu sync.RWMutex
	closed  bool

	locksMu sync.Mutex
	locks   map[string]*pathLock
}

// NewQueue creates and starts a queue with the given number of workers
func NewQueue(workers int, log logger.Logger) *Queue {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		logger:  log,
		pending: make(chan *Job, 100),
		ctx:     ctx,
		cancel:  cancel,
		locks:   make(map[string]*pathLock),
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Submit creates a job and queues it. It blocks while the queue is full.
func (q *Queue) Submit(kind Kind, input, output string, run RunFunc) (*Job, error) {
	j := &Job{
		ID:        uuid.New().String(),
		Kind:      kind,
		Input:     input,
		Output:    output,
		run:       run,
		done:      make(chan struct{}),
		status:    StatusPending,
		CreatedAt: time.Now(),
	}

	q.closeMu.RLock()
	defer q.closeMu.RUnlock()
	if q.closed {
		return nil, ErrClosed
	}

	q.pending <- j
	q.logger.Info(q.ctx, "[job] queued %s %s (%s)", j.Kind, j.Input, j.ID)
	return j, nil
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (q *Queue) Close() {
	q.closeMu.Lock()
	if !q.closed {
		q.closed = true
		close(q.pending)
	}
	q.closeMu.Unlock()

	q.wg.Wait()
}

// Stop cancels running jobs, marks queued ones cancelled and waits for the
// workers to exit.
func (q *Queue) Stop() {
	q.cancel()
	q.Close()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for j := range q.pending {
		q.process(j)
	}
}

func (q *Queue) process(j *Job) {
	if err := q.ctx.Err(); err != nil {
		j.finish(StatusCancelled, "", err)
		return
	}

	if j.Output != "" {
		unlock := q.lockPath(j.Output)
		defer unlock()
	}

	j.start()
	q.logger.Info(q.ctx, "[job] running %s %s (%s)", j.Kind, j.Input, j.ID)

	result, err := q.runSafe(j)
	switch {
	case err == nil:
		j.finish(StatusCompleted, result, nil)
		q.logger.Info(q.ctx, "[job] completed %s %s in %s", j.Kind, j.Input, j.Elapsed())
	case errors.Is(err, context.Canceled):
		j.finish(StatusCancelled, "", err)
		q.logger.Warn(q.ctx, "[job] cancelled %s %s", j.Kind, j.Input)
	default:
		j.finish(StatusFailed, "", err)
		q.logger.Error(q.ctx, "[job] failed %s %s: %v", j.Kind, j.Input, err)
	}
}

// runSafe converts a panicking job into a failed one so the worker survives.
func (q *Queue) runSafe(j *Job) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return j.run(q.ctx)
}

func (q *Queue) lockPath(path string) func() {
	q.locksMu.Lock()
	l, ok := q.locks[path]
	if !ok {
		l = &pathLock{}
		q.locks[path] = l
	}
	l.refs++
	q.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		q.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(q.locks, path)
		}
		q.locksMu.Unlock()
	}
}
