// Package parallel provides a bounded worker pool for loading trace
// files concurrently. The identification core itself is
// single-threaded; the pool only parallelizes the IO-bound reading of
// input directories, with backpressure so a large corpus cannot
// exhaust resources.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrPoolShutdown is returned when submitting work to a pool that has
// been shut down.
var ErrPoolShutdown = errors.New("worker pool has been shut down")

// Pool manages a fixed set of worker goroutines consuming submitted
// tasks from a bounded queue.
type Pool struct {
	tasks    chan func()
	shutdown chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// New creates a pool with the given number of workers. Zero or
// negative means one worker per CPU core.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		tasks:    make(chan func(), workers*2),
		shutdown: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			task()
		case <-p.shutdown:
			return
		}
	}
}

// Submit queues a task. When the queue is full the call blocks until a
// worker frees a slot, the context expires, or the pool shuts down.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	select {
	case <-p.shutdown:
		return ErrPoolShutdown
	default:
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.shutdown:
		return ErrPoolShutdown
	}
}

// Shutdown stops the workers after the tasks already started finish.
// Further Submit calls fail with ErrPoolShutdown. Safe to call more
// than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.shutdown)
		p.wg.Wait()
	})
}
