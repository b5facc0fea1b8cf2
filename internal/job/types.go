package job

import (
	"context"
	"sync"
	"time"
)

// Kind represents the kind of job
type Kind string

const (
	KindTranscribe Kind = "transcribe"
	KindSummarize  Kind = "summarize"
	KindTranslate  Kind = "translate"
)

// Status represents the current state of a job
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// RunFunc does the work of a job and returns the path it produced.
type RunFunc func(ctx context.Context) (string, error)

// Job is a queued transcription, summary or translation
type Job struct {
	ID     string
	Kind   Kind
	Input  string
	Output string // jobs with the same Output never run at the same time

	run  RunFunc
	done chan struct{}

	mu          sync.Mutex
	status      Status
	result      string
	err         error
	CreatedAt   time.Time
	startedAt   time.Time
	completedAt time.Time
}

// Done is closed once the job has finished, whatever the outcome.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes or ctx ends.
func (j *Job) Wait(ctx context.Context) (string, error) {
	select {
	case <-j.done:
		return j.Result(), j.Err()
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Err returns the job error; nil until the job is done.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Result returns the produced path of a completed job.
func (j *Job) Result() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Elapsed returns how long the job ran.
func (j *Job) Elapsed() time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.startedAt.IsZero() {
		return 0
	}
	if j.completedAt.IsZero() {
		return time.Since(j.startedAt)
	}
	return j.completedAt.Sub(j.startedAt)
}

func (j *Job) start() {
	j.mu.Lock()
	j.status = StatusRunning
	j.startedAt = time.Now()
	j.mu.Unlock()
}

func (j *Job) finish(status Status, result string, err error) {
	j.mu.Lock()
	j.status = status
	j.result = result
	j.err = err
	j.completedAt = time.Now()
	j.mu.Unlock()
	close(j.done)
}
