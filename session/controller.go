// Package session owns the authenticated identity and the login, logout,
// registration and profile lifecycle of the admin console.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopkit-dev/shopctl/csrf"
	"github.com/shopkit-dev/shopctl/domain"
	apperr "github.com/shopkit-dev/shopctl/errors"
	"github.com/shopkit-dev/shopctl/log"
	"github.com/shopkit-dev/shopctl/logout"
)

// State is the controller's authentication state.
type State int

const (
	// StateUnknown means the authentication status has not been determined.
	StateUnknown State = iota
	// StateCheckingSession means the startup profile check is in flight.
	StateCheckingSession
	// StateAuthenticating means a credential exchange is in flight.
	StateAuthenticating
	// StateAuthenticated means a verified identity is held.
	StateAuthenticated
	// StateUnauthenticated means no identity is held.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateCheckingSession:
		return "checking-session"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "invalid"
}

// Route is a navigation target requested by the controller.
type Route string

const (
	RouteDashboard    Route = "/dashboard"
	RouteLogin        Route = "/login"
	RouteAccessDenied Route = "/access-denied"
)

// Navigator receives the controller's redirect requests. The CLI prints a
// hint; a UI would change screens.
type Navigator interface {
	NavigateTo(route Route)
}

// Gateway is the slice of the authentication gateway the controller needs.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	AdminLogin(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, reg domain.Registration) error
	Logout(ctx context.Context) error
	GetAdminProfile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error)
	IsAuthenticated() bool
	ClearAllTokens() error
}

// User-facing error messages, in the priority order the controller applies:
// server-supplied message, then status-derived, then the error text, then
// the generic fallback.
const (
	msgInvalidCredentials = "Invalid credentials or not an admin user"
	msgAccessDenied       = "Access denied. You do not have the required permissions."
	msgLoginFailed        = "Login failed. Please try again."
	msgRegisterFailed     = "Registration failed. Please try again."
	msgUpdateFailed       = "Profile update failed. Please try again."
)

// Guard errors returned by RequireAdmin.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAdmin         = errors.New("admin role required")
)

const defaultCheckTimeout = 10 * time.Second

// Controller owns the Identity and the last session error. All mutation
// goes through its methods; queries return read-only copies.
type Controller struct {
	gw          Gateway
	guard       *csrf.Guard
	nav         Navigator
	logger      log.Logger
	unsubscribe func()

	checkTimeout time.Duration

	mu           sync.Mutex
	state        State
	user         *domain.User
	lastErr      string
	bootstrapped bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithCheckTimeout bounds the startup profile check so the console never
// hangs on an unresponsive platform.
func WithCheckTimeout(d time.Duration) Option {
	return func(c *Controller) { c.checkTimeout = d }
}

// NewController creates a Controller in StateUnknown and subscribes it to
// the forced-logout signal. Call Close to unsubscribe.
func NewController(gw Gateway, guard *csrf.Guard, nav Navigator, sig *logout.Signal, logger log.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = log.Nop()
	}
	c := &Controller{
		gw:           gw,
		guard:        guard,
		nav:          nav,
		logger:       logger,
		checkTimeout: defaultCheckTimeout,
		state:        StateUnknown,
	}
	for _, opt := range opts {
		opt(c)
	}
	if sig != nil {
		c.unsubscribe = sig.Subscribe(c.onForcedLogout)
	}
	return c
}

// Close unsubscribes the controller from the forced-logout signal.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Bootstrap resolves the initial authentication state. It runs the profile
// check at most once per controller, and only when a locally persisted
// session indicator exists; otherwise it settles on StateUnauthenticated
// without touching the network. Check failures are swallowed: any failure
// means "not authenticated" and clears local credential markers.
func (c *Controller) Bootstrap(ctx context.Context) {
	c.mu.Lock()
	if c.bootstrapped {
		c.mu.Unlock()
		return
	}
	c.bootstrapped = true
	if !c.gw.IsAuthenticated() {
		c.state = StateUnauthenticated
		c.mu.Unlock()
		return
	}
	c.state = StateCheckingSession
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()
	user, err := c.gw.GetAdminProfile(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil || !user.IsAdmin() {
		if err != nil {
			c.logger.Debug(ctx, "startup session check failed", log.Fields{"error": err.Error()})
		}
		_ = c.gw.ClearAllTokens()
		c.user = nil
		c.state = StateUnauthenticated
		return
	}
	c.user = user
	c.state = StateAuthenticated
}

// Login performs a regular-user credential exchange. On success the
// identity is stored and the navigator is sent to the dashboard; on failure
// the session error is set and the error is returned to the caller.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, email, password, c.gw.Login)
}

// AdminLogin is Login against the admin-specific endpoint; it is the path
// the guarded console uses.
func (c *Controller) AdminLogin(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, email, password, c.gw.AdminLogin)
}

func (c *Controller) authenticate(ctx context.Context, email, password string, exchange func(context.Context, string, string) (*domain.User, error)) error {
	c.begin()

	user, err := csrf.ProtectResult(ctx, c.guard, func(ctx context.Context) (*domain.User, error) {
		return exchange(ctx, email, password)
	})

	c.mu.Lock()
	if err != nil {
		c.lastErr = errorMessage(err, msgLoginFailed)
		// A failed exchange settles unauthenticated, so any identity held
		// from a previous session is dropped with it.
		c.user = nil
		c.state = StateUnauthenticated
		c.mu.Unlock()
		return err
	}
	c.user = user
	c.state = StateAuthenticated
	c.mu.Unlock()

	c.nav.NavigateTo(RouteDashboard)
	return nil
}

// Register creates a new account. It never authenticates the session: the
// controller returns to its prior settled state afterwards. Failures are
// recorded as the session error and returned.
func (c *Controller) Register(ctx context.Context, reg domain.Registration) (bool, error) {
	prev := c.begin()

	err := c.guard.Protect(ctx, func(ctx context.Context) error {
		return c.gw.Register(ctx, reg)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = prev
	if err != nil {
		c.lastErr = errorMessage(err, msgRegisterFailed)
		return false, err
	}
	return true, nil
}

// Logout invalidates the session best-effort: the remote call runs behind
// the CSRF guard like every other mutation, but any failure — refresh or
// remote — is swallowed, local identity and credential markers are cleared
// regardless, and the navigator is always sent to the login entry point.
func (c *Controller) Logout(ctx context.Context) {
	err := c.guard.Protect(ctx, func(ctx context.Context) error {
		return c.gw.Logout(ctx)
	})
	if err != nil {
		c.logger.Warn(ctx, "remote logout failed, clearing local session anyway", log.Fields{"error": err.Error()})
	}
	c.mu.Lock()
	_ = c.gw.ClearAllTokens()
	c.user = nil
	c.state = StateUnauthenticated
	c.mu.Unlock()

	c.nav.NavigateTo(RouteLogin)
}

// onForcedLogout reacts to the forced-logout signal: identical local
// clearing to Logout, no remote call, and the redirect fires only when the
// controller actually held a session, so repeated raises redirect once.
func (c *Controller) onForcedLogout() {
	c.mu.Lock()
	already := c.state == StateUnauthenticated && c.user == nil
	_ = c.gw.ClearAllTokens()
	c.user = nil
	c.state = StateUnauthenticated
	c.mu.Unlock()

	if !already {
		c.nav.NavigateTo(RouteLogin)
	}
}

// UpdateProfile updates the profile and replaces the identity wholesale
// with the returned representation. Failure sets the session error and
// returns false without logging the user out.
func (c *Controller) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) bool {
	prev := c.begin()

	user, err := csrf.ProtectResult(ctx, c.guard, func(ctx context.Context) (*domain.User, error) {
		return c.gw.UpdateProfile(ctx, update)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = prev
	if err != nil {
		c.lastErr = errorMessage(err, msgUpdateFailed)
		return false
	}
	c.user = user
	return true
}

// begin marks the start of a gateway exchange: clears the session error and
// enters StateAuthenticating. It returns the prior state.
func (c *Controller) begin() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.state
	c.lastErr = ""
	c.state = StateAuthenticating
	return prev
}

// ClearError clears the session error without other side effects.
func (c *Controller) ClearError() {
	c.mu.Lock()
	c.lastErr = ""
	c.mu.Unlock()
}

// State returns the current authentication state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loading reports whether the UI should show a pending indicator instead of
// rendering protected content.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateUnknown || c.state == StateCheckingSession || c.state == StateAuthenticating
}

// CurrentUser returns a copy of the identity, or nil when absent.
func (c *Controller) CurrentUser() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Err returns the last session error message, empty when none.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// IsAdmin reports whether the held identity carries the admin role.
func (c *Controller) IsAdmin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user.IsAdmin()
}

// HasRole reports whether the held identity carries the given role.
func (c *Controller) HasRole(r domain.Role) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user.HasRole(r)
}

// RequireAdmin is the route-guard decision for the admin console: absent
// identity redirects to login, a present non-admin identity redirects to
// the access-denied view. It returns nil only for an admin identity.
func (c *Controller) RequireAdmin() error {
	c.mu.Lock()
	user := c.user
	c.mu.Unlock()

	switch {
	case user == nil:
		c.nav.NavigateTo(RouteLogin)
		return ErrNotAuthenticated
	case !user.IsAdmin():
		c.nav.NavigateTo(RouteAccessDenied)
		return ErrNotAdmin
	}
	return nil
}

// errorMessage picks the most specific user-facing message available.
func errorMessage(err error, fallback string) string {
	if apiErr, ok := apperr.AsAPIError(err); ok {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		switch apiErr.Status {
		case 401:
			return msgInvalidCredentials
		case 403:
			return msgAccessDenied
		}
		if apiErr.Err != nil {
			return apiErr.Err.Error()
		}
		return fallback
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
