// Package lifecycle coordinates startup readiness and graceful shutdown
// across subsystems.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	startup  sync.WaitGroup
	shutdown sync.WaitGroup
	ready    atomic.Bool
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently; WaitForStartup waits for it.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnShutdown runs fn concurrently; Shutdown waits for it. Hooks block on
// <-c.Context().Done() before cleaning up.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

// Ready reports whether all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until all startup hooks have completed and marks the
// coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	c.ready.Store(true)
}

// Shutdown cancels the context, clears readiness, and waits up to timeout
// for shutdown hooks. Calling it again is harmless.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
