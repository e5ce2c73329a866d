// Package bridge runs blocking calls on a shared worker pool so that
// callers on the serving goroutines can await them without stalling.
package bridge

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Sentinel errors for the bridge package. Both indicate a failure of the
// offload machinery itself, never of the wrapped call.
var (
	// ErrPoolClosed is returned when a call is submitted after Close.
	ErrPoolClosed = errors.New("bridge pool closed")

	// ErrPoolSaturated is returned when the submission queue is full.
	ErrPoolSaturated = errors.New("bridge pool saturated")
)

// DefaultWorkers and DefaultQueueDepth are used when the config leaves
// pool sizing unset.
const (
	DefaultWorkers    = 4
	DefaultQueueDepth = 16
)

// Pool executes submitted functions on a fixed set of worker goroutines.
type Pool struct {
	tasks  chan func()
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool creates a pool with the given number of workers and queue depth.
// Non-positive values fall back to the defaults.
func NewPool(workers, queueDepth int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueDepth <= 0 {
		queueDepth = DefaultQueueDepth
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pool{
		tasks:  make(chan func(), queueDepth),
		logger: logger.With("component", "bridge"),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	p.logger.Debug("pool started", "workers", workers, "queue_depth", queueDepth)
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// submit enqueues a task. It fails fast: a cancelled context, a closed
// pool, or a full queue all surface immediately rather than blocking the
// caller's goroutine on the queue.
func (p *Pool) submit(ctx context.Context, task func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolSaturated
	}
}

// Close stops accepting work and waits for in-flight calls to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Debug("pool stopped")
}

// result carries a call's outcome across the suspend/resume boundary.
type result[T any] struct {
	value T
	err   error
}

// Call runs fn on the pool and blocks the calling goroutine until fn
// completes or ctx is done. fn's return value and error pass through
// unchanged. If ctx is cancelled after dispatch, fn still runs to
// completion on its worker; the buffered channel lets the worker move on
// without a receiver.
func Call[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	var zero T

	ch := make(chan result[T], 1)
	err := p.submit(ctx, func() {
		value, err := fn()
		ch <- result[T]{value: value, err: err}
	})
	if err != nil {
		return zero, err
	}

	select {
	case res := <-ch:
		return res.value, res.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Do is Call for functions with no return value.
func Do(ctx context.Context, p *Pool, fn func() error) error {
	_, err := Call(ctx, p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
