package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrQueueFull is returned by Enqueue when the work queue is at capacity.
var ErrQueueFull = errors.New("work queue is full")

// ErrDispatcherClosed is returned by Enqueue after Shutdown has begun.
var ErrDispatcherClosed = errors.New("dispatcher is shut down")

// Job is one unit of background work. The context passed to Run is the
// dispatcher's own context, not the HTTP request context, so a job outlives
// the request that enqueued it.
type Job struct {
	TaskID string
	Run    func(ctx context.Context)
}

// Dispatcher feeds accepted tasks to a fixed pool of workers through a
// bounded queue. Admission is non-blocking: when the queue is full the
// caller gets ErrQueueFull and decides how to degrade.
type Dispatcher struct {
	queue chan Job
	group *errgroup.Group
	ctx   context.Context

	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts workers goroutines draining a queue of the given
// size. Both must be positive.
func NewDispatcher(size, workers int) *Dispatcher {
	d := &Dispatcher{
		queue: make(chan Job, size),
	}
	d.group, d.ctx = errgroup.WithContext(context.Background())
	for i := 0; i < workers; i++ {
		d.group.Go(d.work)
	}
	return d
}

func (d *Dispatcher) work() error {
	for job := range d.queue {
		job.Run(d.ctx)
	}
	return nil
}

// Enqueue submits a job without blocking.
func (d *Dispatcher) Enqueue(job Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops admission, drains already-queued jobs, and waits for the
// workers to finish or for ctx to expire. Jobs still queued when ctx
// expires are abandoned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- d.group.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		slog.Warn("dispatcher shutdown timed out with jobs still queued")
		return ctx.Err()
	}
}
