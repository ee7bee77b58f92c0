//go:build unix

package scanjob

import (
	"errors"
	"sync"
	"time"
)

// Job wraps an input path, relative to the scan's unpack root, to be
// processed by a Driver. PendingLabels carries labels the parent that
// carved this path assigned to it at extraction time (e.g. "renamed" on a
// duplicate-name collision); the driver seeds the job's Dir with them
// before running the cascade, so they survive into the persisted info
// record even though the Dir itself is rebuilt on dequeue.
type Job struct {
	Path          string
	PendingLabels []string
}

// ErrEmpty is returned by Queue.Get when no job arrived before the timeout
// elapsed.
var ErrEmpty = errors.New("scanjob: queue empty")

// Queue is a multi-producer/multi-consumer FIFO. Workers block on Get with a
// timeout; producers (including workers enqueuing carved children) never
// block on Push. Done marks a job as fully processed, for callers that want
// to Wait for the whole tree under a root job to drain.
type Queue struct {
	ch chan Job
	wg sync.WaitGroup
}

// NewQueue returns an empty Queue with room for bufferSize jobs before Push
// blocks.
func NewQueue(bufferSize int) *Queue {
	return &Queue{ch: make(chan Job, bufferSize)}
}

// Push enqueues job, incrementing the pending count Wait tracks.
func (q *Queue) Push(job Job) {
	q.wg.Add(1)
	q.ch <- job
}

// Get blocks for up to timeout waiting for a job. It returns ErrEmpty on
// timeout rather than blocking forever, so a worker can notice an idle queue
// and terminate.
func (q *Queue) Get(timeout time.Duration) (Job, error) {
	select {
	case job := <-q.ch:
		return job, nil
	case <-time.After(timeout):
		return Job{}, ErrEmpty
	}
}

// Done marks one previously-pushed job as fully processed.
func (q *Queue) Done() {
	q.wg.Done()
}

// Wait blocks until every pushed job has had a matching Done call.
func (q *Queue) Wait() {
	q.wg.Wait()
}
