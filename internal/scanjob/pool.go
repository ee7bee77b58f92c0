//go:build unix

package scanjob

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/corescan/internal/registry"
	"github.com/standardbeagle/corescan/internal/scandebug"
)

// DefaultQueueTimeout is how long an idle worker waits on the queue before
// concluding the scan has drained and terminating.
const DefaultQueueTimeout = 2 * time.Second

// Pool runs a fixed number of workers, each with its own Driver over a
// shared Queue and Registry. Workers are independent: no two ever hold the
// same UD, and the registry is read-only once the pool starts.
type Pool struct {
	workers      int
	queue        *Queue
	registry     *registry.Registry
	unpackRoot   string
	queueTimeout time.Duration
}

// NewPool builds a Pool of workers workers, each driving jobs from queue
// against reg, rooted at unpackRoot.
func NewPool(workers int, unpackRoot string, reg *registry.Registry, queue *Queue) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers:      workers,
		queue:        queue,
		registry:     reg,
		unpackRoot:   unpackRoot,
		queueTimeout: DefaultQueueTimeout,
	}
}

// WithQueueTimeout overrides DefaultQueueTimeout, mostly useful for tests
// that want workers to terminate quickly once a seeded queue drains.
func (p *Pool) WithQueueTimeout(timeout time.Duration) *Pool {
	p.queueTimeout = timeout
	return p
}

// Run starts the pool's workers and blocks until all of them have
// terminated, either because the queue emptied out past its timeout on
// every worker, or because one worker returned a non-nil error — in which
// case the shared context is cancelled, the other workers finish the job
// they hold and stop without taking new ones, and Run reports the first
// error once they have all returned.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			return p.runWorker(ctx)
		})
	}
	return g.Wait()
}

func (p *Pool) runWorker(ctx context.Context) error {
	driver := NewDriver(p.unpackRoot, p.registry, p.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		job, err := p.queue.Get(p.queueTimeout)
		if err != nil {
			if errors.Is(err, ErrEmpty) {
				scandebug.Log("pool", "worker idle past timeout, terminating")
				return nil
			}
			return err
		}

		jobErr := driver.ProcessJob(job)
		p.queue.Done()
		if jobErr != nil {
			return jobErr
		}
	}
}
