// Package controller owns the lifecycle of the capture loop and the
// dashboard server as independently cancellable units of work.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/runnerr0/recall/internal/capture"
)

// DefaultStopTimeout bounds how long Stop waits for the capture loop to
// acknowledge cancellation.
const DefaultStopTimeout = 5 * time.Second

// Option configures a Controller.
type Option func(*Controller)

// WithStopTimeout overrides the bounded wait used by Stop.
func WithStopTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.stopTimeout = d
	}
}

// Controller is the single authority over process-wide capture/serve
// state. It prevents double-starts and guarantees bounded-time shutdown.
type Controller struct {
	state       *State
	loop        *capture.Loop
	newServer   func() *http.Server // nil disables the serving unit
	logger      *slog.Logger
	stopTimeout time.Duration

	mu       sync.Mutex
	cancel   context.CancelFunc
	loopDone chan struct{}
	srv      *http.Server // live server for the current run
}

// New wires a controller around the shared state, the capture loop, and an
// optional HTTP server factory. newServer is invoked on every Start: a Go
// http.Server cannot serve again after Shutdown, so each run needs a fresh
// instance for the idle/running cycle to hold on both units.
func New(state *State, loop *capture.Loop, newServer func() *http.Server, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		state:       state,
		loop:        loop,
		newServer:   newServer,
		logger:      logger,
		stopTimeout: DefaultStopTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the capture loop and the server as independent
// goroutines. Calling Start while already running is a no-op.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return
	}

	// Clear any pause left over from a previous run.
	c.state.Resume()

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	done := make(chan struct{})
	c.loopDone = done
	go func() {
		defer close(done)
		c.loop.Run(ctx, c.state)
	}()

	if c.newServer != nil {
		c.srv = c.newServer()
		srv := c.srv
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				c.logger.Error("dashboard server stopped", "err", err)
			}
		}()
	}

	c.state.setRunning(true)
}

// Stop signals both units and waits for the capture loop to finish, up to
// the stop timeout. A tick blocked inside a screen grab or OCR call may
// outlive the timeout; it holds only a cancelled context and exits at its
// next boundary, so leaking past the bound is tolerated rather than fatal.
// Calling Stop while idle is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return
	}

	c.cancel()

	select {
	case <-c.loopDone:
	case <-time.After(c.stopTimeout):
		c.logger.Warn("capture loop did not stop within timeout", "timeout", c.stopTimeout)
	}

	if c.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.stopTimeout)
		defer cancel()
		if err := c.srv.Shutdown(ctx); err != nil {
			c.logger.Warn("dashboard server shutdown", "err", err)
		}
		// Shut-down servers are spent; the next Start builds a new one.
		c.srv = nil
	}

	c.cancel = nil
	c.state.setRunning(false)
}

// PauseRecording suspends capture at the loop's next tick boundary.
func (c *Controller) PauseRecording() {
	c.state.Pause()
}

// ResumeRecording re-enables capture.
func (c *Controller) ResumeRecording() {
	c.state.Resume()
}

// IsRecording reports true when started and not paused.
func (c *Controller) IsRecording() bool {
	return c.state.IsRecording()
}
