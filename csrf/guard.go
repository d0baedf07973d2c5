// Package csrf keeps mutating API calls behind a fresh anti-forgery token.
//
// Tokens rotate server-side, so a stale token causes rejected mutations,
// while refreshing before every request wastes a round-trip. The guard
// refreshes at most once per staleness window and collapses concurrent
// refresh attempts into a single network call.
package csrf

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperr "github.com/shopkit-dev/shopctl/errors"
	"github.com/shopkit-dev/shopctl/log"
)

const (
	// DefaultStaleness is how long a successful refresh stays usable.
	DefaultStaleness = 10 * time.Minute
	// DefaultCooldown keeps the completed in-flight slot occupied briefly,
	// so a caller that raced the refresh does not immediately start another.
	DefaultCooldown = 500 * time.Millisecond
)

// TokenSource fetches a fresh anti-forgery token. Implemented by the auth
// gateway.
type TokenSource interface {
	GetCSRFToken(ctx context.Context) error
}

// refreshCall is the shared outcome of a single in-flight refresh.
type refreshCall struct {
	done chan struct{}
	ok   bool
	err  error
}

// Guard serializes token refreshes. The zero value is not usable; use New.
type Guard struct {
	src       TokenSource
	staleness time.Duration
	cooldown  time.Duration
	logger    log.Logger
	now       func() time.Time

	mu          sync.Mutex
	inflight    *refreshCall
	lastRefresh time.Time
	lastErr     error
}

// Option configures a Guard.
type Option func(*Guard)

// WithStaleness overrides the staleness window.
func WithStaleness(d time.Duration) Option {
	return func(g *Guard) { g.staleness = d }
}

// WithCooldown overrides the in-flight slot cool-down.
func WithCooldown(d time.Duration) Option {
	return func(g *Guard) { g.cooldown = d }
}

// WithClock overrides the time source. Tests use it.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// New creates a Guard over src.
func New(src TokenSource, logger log.Logger, opts ...Option) *Guard {
	if logger == nil {
		logger = log.Nop()
	}
	g := &Guard{
		src:       src,
		staleness: DefaultStaleness,
		cooldown:  DefaultCooldown,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RefreshToken ensures a usable anti-forgery token and reports success.
//
// A refresh already in flight is joined rather than duplicated: the caller
// waits for it and shares its outcome. Otherwise, unless force is set, a
// refresh within the staleness window short-circuits to true. A failed fetch
// records the error, readable via Err.
func (g *Guard) RefreshToken(ctx context.Context, force bool) bool {
	g.mu.Lock()
	if call := g.inflight; call != nil {
		g.mu.Unlock()
		<-call.done
		return call.ok
	}
	if !force && !g.lastRefresh.IsZero() && g.now().Sub(g.lastRefresh) < g.staleness {
		g.mu.Unlock()
		return true
	}
	call := &refreshCall{done: make(chan struct{})}
	g.inflight = call
	g.mu.Unlock()

	err := g.src.GetCSRFToken(ctx)

	g.mu.Lock()
	if err != nil {
		g.logger.Warn(ctx, "csrf token refresh failed", log.Fields{"error": err.Error()})
		g.lastErr = err
		call.err = err
	} else {
		g.lastRefresh = g.now()
		g.lastErr = nil
		call.ok = true
	}
	close(call.done)
	g.mu.Unlock()

	// Hold the completed slot through the cool-down; late racers join it
	// and return immediately with the shared outcome.
	time.AfterFunc(g.cooldown, func() {
		g.mu.Lock()
		if g.inflight == call {
			g.inflight = nil
		}
		g.mu.Unlock()
	})
	return call.ok
}

// Protect runs op behind a fresh token. When the refresh fails, op is never
// invoked and the refresh error surfaces wrapped in ErrCSRFRefresh.
func (g *Guard) Protect(ctx context.Context, op func(context.Context) error) error {
	if !g.RefreshToken(ctx, false) {
		if err := g.Err(); err != nil {
			return fmt.Errorf("%w: %w", apperr.ErrCSRFRefresh, err)
		}
		return apperr.ErrCSRFRefresh
	}
	return op(ctx)
}

// ProtectResult is Protect for operations that return a value.
func ProtectResult[T any](ctx context.Context, g *Guard, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := g.Protect(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	return result, err
}

// Err returns the last refresh error, or nil after a successful refresh.
func (g *Guard) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// ClearError clears the recorded refresh error.
func (g *Guard) ClearError() {
	g.mu.Lock()
	g.lastErr = nil
	g.mu.Unlock()
}
