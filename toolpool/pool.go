// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package toolpool

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Handle is one managed tool process.
//
// Activate and Deactivate are called at most once each per pool
// generation: uninitialized handles become active or failed during
// Initialize, and active handles are deactivated during Close. Both end
// states are terminal until the pool is initialized again.
type Handle interface {
	// Name identifies the handle within its pool. Names must be unique.
	Name() string

	// Activate starts the underlying tool process.
	Activate(ctx context.Context) error

	// Deactivate stops the underlying tool process.
	Deactivate(ctx context.Context) error
}

// DefaultHealthInterval is the minimum spacing between health check
// evaluations.
const DefaultHealthInterval = 30 * time.Second

// Pool activates and tracks a fixed set of tool handles.
type Pool struct {
	handles  []Handle
	parallel bool
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu          sync.Mutex
	active      map[string]Handle
	failed      map[string]error
	initialized bool
	lastHealth  time.Time
	lastHealthy bool
}

// Option configures a [Pool].
type Option func(*Pool)

// WithLogger sets the logger for activation and failure events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// WithParallelInit makes Initialize activate all handles concurrently
// instead of one at a time.
func WithParallelInit() Option {
	return func(p *Pool) {
		p.parallel = true
	}
}

// WithHealthInterval sets the minimum spacing between health check
// evaluations.
func WithHealthInterval(d time.Duration) Option {
	return func(p *Pool) {
		p.interval = d
	}
}

func withClock(now func() time.Time) Option {
	return func(p *Pool) {
		p.now = now
	}
}

// New creates a [Pool] over the given handles. The pool is not ready
// until [Pool.Initialize] runs.
func New(handles []Handle, opts ...Option) *Pool {
	p := &Pool{
		handles:  handles,
		interval: DefaultHealthInterval,
		logger:   slog.Default(),
		now:      time.Now,
		active:   make(map[string]Handle),
		failed:   make(map[string]error),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Initialize activates every registered handle. A handle that fails to
// activate is logged and recorded as failed; the remaining handles still
// activate. Initialize returns an error only when no handle could be
// activated.
func (p *Pool) Initialize(ctx context.Context) error {
	p.mu.Lock()
	if p.initialized {
		p.mu.Unlock()
		return nil
	}
	p.active = make(map[string]Handle, len(p.handles))
	p.failed = make(map[string]error)
	p.mu.Unlock()

	if p.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for _, h := range p.handles {
			g.Go(func() error {
				p.activate(gctx, h)
				return nil
			})
		}
		g.Wait()
	} else {
		for _, h := range p.handles {
			p.activate(ctx, h)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = true
	p.logger.InfoContext(ctx, "tool pool initialized",
		slog.Int("active", len(p.active)),
		slog.Int("failed", len(p.failed)),
	)
	if len(p.handles) > 0 && len(p.active) == 0 {
		return fmt.Errorf("toolpool: all %d handle(s) failed to activate", len(p.handles))
	}
	return nil
}

func (p *Pool) activate(ctx context.Context, h Handle) {
	if err := h.Activate(ctx); err != nil {
		p.logger.WarnContext(ctx, "tool handle failed to activate",
			slog.String("handle", h.Name()),
			slog.Any("error", err),
		)
		p.mu.Lock()
		p.failed[h.Name()] = err
		p.mu.Unlock()
		return
	}
	p.mu.Lock()
	p.active[h.Name()] = h
	p.mu.Unlock()
}

// Handle returns the active handle with the given name.
func (p *Pool) Handle(name string) (Handle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.active[name]
	return h, ok
}

// IsReady reports whether the pool has been initialized and at least one
// handle is active.
func (p *Pool) IsReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized && len(p.active) > 0
}

// ActiveCount returns the number of active handles.
func (p *Pool) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}

// ActiveNames returns the names of the active handles, sorted.
func (p *Pool) ActiveNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.active))
	for name := range p.active {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// FailedNames returns the names of handles that failed to activate,
// sorted.
func (p *Pool) FailedNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.failed))
	for name := range p.failed {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ReportFailure records that an active handle broke during use. The
// handle is deactivated best-effort and moves to the failed set.
func (p *Pool) ReportFailure(ctx context.Context, name string, cause error) {
	p.mu.Lock()
	h, ok := p.active[name]
	if !ok {
		p.mu.Unlock()
		return
	}
	delete(p.active, name)
	p.failed[name] = cause
	p.mu.Unlock()

	p.logger.WarnContext(ctx, "tool handle reported failed",
		slog.String("handle", name),
		slog.Any("error", cause),
	)
	if err := h.Deactivate(ctx); err != nil {
		p.logger.WarnContext(ctx, "deactivate failed handle",
			slog.String("handle", name),
			slog.Any("error", err),
		)
	}
}

// HealthCheck reports pool health from current state. Evaluations are
// spaced at least the configured interval apart; a call inside the window
// returns the previous result.
func (p *Pool) HealthCheck(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if !p.lastHealth.IsZero() && now.Sub(p.lastHealth) < p.interval {
		return p.lastHealthy
	}
	p.lastHealth = now
	p.lastHealthy = p.initialized && len(p.active) > 0
	return p.lastHealthy
}

// Close deactivates every active handle best-effort and marks the pool
// uninitialized. A subsequent Initialize starts a fresh generation in
// which previously failed handles may activate again.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	active := p.active
	p.active = make(map[string]Handle)
	p.failed = make(map[string]error)
	p.initialized = false
	p.lastHealth = time.Time{}
	p.lastHealthy = false
	p.mu.Unlock()

	var firstErr error
	for name, h := range active {
		if err := h.Deactivate(ctx); err != nil {
			p.logger.WarnContext(ctx, "deactivate tool handle",
				slog.String("handle", name),
				slog.Any("error", err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("deactivate %s: %w", name, err)
			}
		}
	}
	return firstErr
}
