// Package lifecycle coordinates startup, readiness, and shutdown of the
// service's long-lived subsystems.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"
)

// ErrShutdownTimeout is returned when shutdown hooks outlive their deadline.
var ErrShutdownTimeout = errors.New("shutdown timed out")

// Check reports whether a subsystem can currently serve traffic.
type Check func() bool

// Coordinator runs startup and shutdown hooks and aggregates the readiness
// of the subsystems that registered a Check.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup

	mu      sync.RWMutex
	started bool
	checks  map[string]Check
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		checks: make(map[string]Check),
	}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently; WaitForStartup blocks until it returns.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown runs fn concurrently. Hooks block on <-c.Context().Done()
// before releasing their resources.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Require adds a named readiness check. Registering a name twice replaces
// the earlier check.
func (c *Coordinator) Require(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// WaitForStartup blocks until every startup hook has returned.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.mu.Lock()
	c.started = true
	c.mu.Unlock()
}

// Ready is true once startup has finished and every check passes.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	started := c.started
	checks := maps.Clone(c.checks)
	c.mu.RUnlock()

	if !started {
		return false
	}
	for _, check := range checks {
		if !check() {
			return false
		}
	}
	return true
}

// Status reports each registered check by name.
func (c *Coordinator) Status() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]bool, len(c.checks))
	for name, check := range c.checks {
		out[name] = check()
	}
	return out
}

// Shutdown cancels the context and waits up to timeout for shutdown hooks.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("%w after %v", ErrShutdownTimeout, timeout)
	}
}
