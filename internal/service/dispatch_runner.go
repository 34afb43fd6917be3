package service

import (
	"context"
	"log/slog"
	"sync"
)

// DispatchRunner runs detached notification dispatches in the background,
// at most concurrency at a time with at most maxPending admitted (running or
// waiting). Jobs are never canceled; Run drains them on shutdown.
type DispatchRunner struct {
	sem    chan struct{}
	admit  chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewDispatchRunner creates a new DispatchRunner. maxPending below
// concurrency is raised to concurrency.
func NewDispatchRunner(concurrency, maxPending int) *DispatchRunner {
	if concurrency < 1 {
		concurrency = 1
	}
	if maxPending < concurrency {
		maxPending = concurrency
	}
	return &DispatchRunner{
		sem:   make(chan struct{}, concurrency),
		admit: make(chan struct{}, maxPending),
	}
}

// Go schedules job. It reports false when the runner is shutting down or
// already holds maxPending jobs.
func (r *DispatchRunner) Go(ctx context.Context, name string, job func(ctx context.Context)) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		slog.Warn("dispatchRunner: rejected job after shutdown", "job", name)
		return false
	}
	select {
	case r.admit <- struct{}{}:
	default:
		r.mu.Unlock()
		slog.Warn("dispatchRunner: rejected job, queue full", "job", name, "max_pending", cap(r.admit))
		return false
	}
	r.wg.Add(1)
	r.mu.Unlock()

	// The job outlives the request that scheduled it.
	jobCtx := context.WithoutCancel(ctx)
	go func() {
		defer r.wg.Done()
		defer func() { <-r.admit }()
		r.sem <- struct{}{} // acquire
		defer func() { <-r.sem }()

		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("dispatchRunner: job panicked", "job", name, "panic", rec)
			}
		}()
		job(jobCtx)
	}()
	return true
}

// Run blocks until ctx is canceled, then stops accepting jobs and waits for
// in-flight ones to finish.
func (r *DispatchRunner) Run(ctx context.Context) error {
	slog.Info("dispatchRunner: started", "concurrency", cap(r.sem), "max_pending", cap(r.admit))
	<-ctx.Done()
	slog.Info("dispatchRunner: shutting down, waiting for in-flight dispatches...")
	r.Close()
	slog.Info("dispatchRunner: shutdown complete")
	return nil
}

// Close stops accepting jobs and waits for in-flight ones.
func (r *DispatchRunner) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}
