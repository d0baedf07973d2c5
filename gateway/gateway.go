// Package gateway adapts the platform's authentication endpoints to the
// interfaces consumed by the session controller and the CSRF guard.
package gateway

import (
	"context"

	"github.com/shopkit-dev/shopctl/domain"
	"github.com/shopkit-dev/shopctl/log"
	"github.com/shopkit-dev/shopctl/transport"
)

// HTTPGateway talks to the platform's auth endpoints. The server issues
// HTTP-only session cookies; the transport's persisted jar carries them.
type HTTPGateway struct {
	t      *transport.Client
	logger log.Logger
}

// New creates an HTTPGateway over the shared transport.
func New(t *transport.Client, logger log.Logger) *HTTPGateway {
	if logger == nil {
		logger = log.Nop()
	}
	return &HTTPGateway{t: t, logger: logger}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the body of a successful credential exchange.
type authResponse struct {
	User *domain.User `json:"user"`
}

// Login exchanges regular-user credentials for a session.
func (g *HTTPGateway) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var resp authResponse
	err := g.t.Post(ctx, "auth.login", "/auth/login",
		credentials{Email: email, Password: password}, &resp, transport.WithoutLogoutSignal())
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

// AdminLogin exchanges credentials against the admin endpoint. The server
// rejects non-admin accounts with 401/403.
func (g *HTTPGateway) AdminLogin(ctx context.Context, email, password string) (*domain.User, error) {
	var resp authResponse
	err := g.t.Post(ctx, "auth.adminLogin", "/auth/admin/login",
		credentials{Email: email, Password: password}, &resp, transport.WithoutLogoutSignal())
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Register creates a new account. It does not authenticate the session.
func (g *HTTPGateway) Register(ctx context.Context, reg domain.Registration) error {
	return g.t.Post(ctx, "auth.register", "/auth/register", reg, nil, transport.WithoutLogoutSignal())
}

// Logout invalidates the server-side session.
func (g *HTTPGateway) Logout(ctx context.Context) error {
	return g.t.Post(ctx, "auth.logout", "/auth/logout", nil, nil, transport.WithoutLogoutSignal())
}

// GetAdminProfile fetches the authenticated admin's identity. It fails when
// no valid session exists. The startup check owns the failure handling, so a
// 401 here does not raise the forced-logout signal.
func (g *HTTPGateway) GetAdminProfile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	err := g.t.Get(ctx, "auth.adminProfile", "/users/admin/profile", nil, &user, transport.WithoutLogoutSignal())
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the authenticated user's profile and returns the new
// representation.
func (g *HTTPGateway) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	var user domain.User
	if err := g.t.Put(ctx, "auth.updateProfile", "/users/profile", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type csrfResponse struct {
	Token string `json:"csrfToken"`
}

// GetCSRFToken fetches a fresh anti-forgery token and installs it on the
// transport for subsequent mutating requests.
func (g *HTTPGateway) GetCSRFToken(ctx context.Context) error {
	var resp csrfResponse
	if err := g.t.Get(ctx, "auth.csrfToken", "/auth/csrf-token", nil, &resp, transport.WithoutLogoutSignal()); err != nil {
		return err
	}
	g.t.SetCSRFToken(resp.Token)
	g.logger.Debug(ctx, "csrf token refreshed")
	return nil
}

// IsAuthenticated reports whether locally persisted session cookies exist.
// It involves no network call and may be stale.
func (g *HTTPGateway) IsAuthenticated() bool { return g.t.HasSession() }

// ClearAllTokens drops the anti-forgery token and all session cookies.
func (g *HTTPGateway) ClearAllTokens() error { return g.t.ClearSession() }
