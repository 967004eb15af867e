package app

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/topiclens/topiclens/adapters/metrics"
)

// ErrPoolClosed is returned by Do after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// DefaultQueueSize bounds the number of waiting tasks.
const DefaultQueueSize = 64

type task struct {
	fn   func()
	done chan struct{}
}

// Pool runs CPU-bound work on a fixed set of workers so a burst of
// requests degrades to queueing instead of unbounded goroutine growth.
type Pool struct {
	queue   chan task
	metrics *metrics.Collector
	logger  zerolog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool starts workers goroutines servicing a queue of queueSize.
// Non-positive arguments select GOMAXPROCS workers and the default
// queue size.
func NewPool(workers, queueSize int, mc *metrics.Collector, logger zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	p := &Pool{
		queue:   make(chan task, queueSize),
		metrics: mc,
		logger:  logger.With().Str("component", "pool").Logger(),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.queue {
		p.metrics.PoolQueueDepth.Set(float64(len(p.queue)))
		t.fn()
		close(t.done)
	}
}

// Do runs fn on a pool worker and waits for it to finish. It returns
// early with the context error if ctx expires while the task is still
// queued; a task that already started always runs to completion.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	t := task{fn: fn, done: make(chan struct{})}

	// The lock covers the enqueue so Do never races a concurrent Close.
	// Workers drain the queue independently, so waiting for a slot while
	// holding the lock cannot deadlock.
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	select {
	case p.queue <- t:
		p.mu.Unlock()
	case <-ctx.Done():
		p.mu.Unlock()
		p.metrics.PoolTasks.WithLabelValues("rejected").Inc()
		return ctx.Err()
	}
	p.metrics.PoolQueueDepth.Set(float64(len(p.queue)))

	select {
	case <-t.done:
		p.metrics.PoolTasks.WithLabelValues("completed").Inc()
		return nil
	case <-ctx.Done():
		// The task stays queued and will still run; the caller stops
		// waiting for it.
		p.metrics.PoolTasks.WithLabelValues("abandoned").Inc()
		return ctx.Err()
	}
}

// Close stops accepting work and waits for queued tasks to drain.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()
	p.wg.Wait()
}
