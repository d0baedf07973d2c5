package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit-dev/shopctl/csrf"
	"github.com/shopkit-dev/shopctl/domain"
	apperr "github.com/shopkit-dev/shopctl/errors"
	"github.com/shopkit-dev/shopctl/logout"
	"github.com/shopkit-dev/shopctl/session"
)

var adminUser = &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin}

// fakeGateway implements session.Gateway and csrf.TokenSource with
// overridable behavior per test.
type fakeGateway struct {
	mu sync.Mutex

	loginFn   func(ctx context.Context, email, password string) (*domain.User, error)
	profileFn func(ctx context.Context) (*domain.User, error)
	logoutErr error
	regErr    error
	updateFn  func(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error)
	csrfErr   error

	authenticated bool
	profileCalls  int
	clearCalls    int
	logoutCalls   int
	csrfCalls     int
}

func (g *fakeGateway) Login(ctx context.Context, email, password string) (*domain.User, error) {
	return g.loginFn(ctx, email, password)
}

func (g *fakeGateway) AdminLogin(ctx context.Context, email, password string) (*domain.User, error) {
	return g.loginFn(ctx, email, password)
}

func (g *fakeGateway) Register(ctx context.Context, reg domain.Registration) error { return g.regErr }

func (g *fakeGateway) Logout(ctx context.Context) error {
	g.mu.Lock()
	g.logoutCalls++
	g.mu.Unlock()
	return g.logoutErr
}

func (g *fakeGateway) GetAdminProfile(ctx context.Context) (*domain.User, error) {
	g.mu.Lock()
	g.profileCalls++
	g.mu.Unlock()
	return g.profileFn(ctx)
}

func (g *fakeGateway) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	return g.updateFn(ctx, update)
}

func (g *fakeGateway) IsAuthenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authenticated
}

func (g *fakeGateway) ClearAllTokens() error {
	g.mu.Lock()
	g.clearCalls++
	g.authenticated = false
	g.mu.Unlock()
	return nil
}

func (g *fakeGateway) GetCSRFToken(ctx context.Context) error {
	g.mu.Lock()
	g.csrfCalls++
	g.mu.Unlock()
	return g.csrfErr
}

func (g *fakeGateway) CSRFCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.csrfCalls
}

func (g *fakeGateway) LogoutCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.logoutCalls
}

func (g *fakeGateway) ProfileCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profileCalls
}

func (g *fakeGateway) ClearCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.clearCalls
}

// fakeNav records requested redirects.
type fakeNav struct {
	mu     sync.Mutex
	routes []session.Route
}

func (n *fakeNav) NavigateTo(r session.Route) {
	n.mu.Lock()
	n.routes = append(n.routes, r)
	n.mu.Unlock()
}

func (n *fakeNav) Routes() []session.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]session.Route(nil), n.routes...)
}

func newTestController(gw *fakeGateway) (*session.Controller, *fakeNav, *logout.Signal) {
	nav := &fakeNav{}
	sig := logout.NewSignal()
	guard := csrf.New(gw, nil, csrf.WithCooldown(time.Millisecond))
	ctl := session.NewController(gw, guard, nav, sig, nil)
	return ctl, nav, sig
}

func TestBootstrapWithoutLocalSessionSkipsGateway(t *testing.T) {
	gw := &fakeGateway{authenticated: false}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	ctl.Bootstrap(context.Background())

	assert.Equal(t, session.StateUnauthenticated, ctl.State())
	assert.Zero(t, gw.ProfileCalls())
	assert.Nil(t, ctl.CurrentUser())
}

func TestBootstrapResolvesExistingAdminSession(t *testing.T) {
	gw := &fakeGateway{
		authenticated: true,
		profileFn: func(ctx context.Context) (*domain.User, error) {
			return adminUser, nil
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	ctl.Bootstrap(context.Background())

	assert.Equal(t, session.StateAuthenticated, ctl.State())
	require.NotNil(t, ctl.CurrentUser())
	assert.Equal(t, "ada@example.com", ctl.CurrentUser().Email)
	assert.True(t, ctl.IsAdmin())
}

func TestBootstrapSwallowsCheckFailure(t *testing.T) {
	gw := &fakeGateway{
		authenticated: true,
		profileFn: func(ctx context.Context) (*domain.User, error) {
			return nil, apperr.FromStatus("auth.adminProfile", 401, "")
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	ctl.Bootstrap(context.Background())

	assert.Equal(t, session.StateUnauthenticated, ctl.State())
	assert.Empty(t, ctl.Err(), "startup check failures are never surfaced")
	assert.Equal(t, 1, gw.ClearCalls(), "local credential markers are cleared")
}

func TestBootstrapRejectsNonAdminAccount(t *testing.T) {
	gw := &fakeGateway{
		authenticated: true,
		profileFn: func(ctx context.Context) (*domain.User, error) {
			return &domain.User{ID: "u2", Role: domain.RoleCustomer}, nil
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	ctl.Bootstrap(context.Background())

	assert.Equal(t, session.StateUnauthenticated, ctl.State())
	assert.Nil(t, ctl.CurrentUser())
}

func TestBootstrapRunsAtMostOnce(t *testing.T) {
	gw := &fakeGateway{
		authenticated: true,
		profileFn: func(ctx context.Context) (*domain.User, error) {
			return adminUser, nil
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	ctl.Bootstrap(context.Background())
	ctl.Bootstrap(context.Background())

	assert.Equal(t, 1, gw.ProfileCalls())
}

func TestBootstrapGatesRendering(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gw := &fakeGateway{
		authenticated: true,
		profileFn: func(ctx context.Context) (*domain.User, error) {
			close(entered)
			<-release
			return adminUser, nil
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	assert.True(t, ctl.Loading(), "unknown state must not render protected content")

	done := make(chan struct{})
	go func() {
		ctl.Bootstrap(context.Background())
		close(done)
	}()
	<-entered
	assert.True(t, ctl.Loading(), "checking state must not render protected content")

	close(release)
	<-done
	assert.False(t, ctl.Loading())
	assert.Equal(t, session.StateAuthenticated, ctl.State())
}

func TestAdminLoginSuccess(t *testing.T) {
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return adminUser, nil
		},
	}
	ctl, nav, _ := newTestController(gw)
	defer ctl.Close()

	require.NoError(t, ctl.AdminLogin(context.Background(), "ada@example.com", "pw"))

	assert.Equal(t, session.StateAuthenticated, ctl.State())
	assert.Equal(t, []session.Route{session.RouteDashboard}, nav.Routes())
	assert.Empty(t, ctl.Err())
}

func TestAdminLoginUnauthorizedWithoutBody(t *testing.T) {
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, apperr.FromStatus("auth.adminLogin", 401, "")
		},
	}
	ctl, nav, _ := newTestController(gw)
	defer ctl.Close()

	err := ctl.AdminLogin(context.Background(), "admin@example.com", "wrongpass")
	require.Error(t, err)

	assert.Equal(t, "Invalid credentials or not an admin user", ctl.Err())
	assert.Nil(t, ctl.CurrentUser(), "failed login must not mutate identity")
	assert.Equal(t, session.StateUnauthenticated, ctl.State())
	assert.Empty(t, nav.Routes(), "failed login must not redirect")
}

func TestAdminLoginServerMessageTakesPriority(t *testing.T) {
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, apperr.FromStatus("auth.adminLogin", 400, "email address is malformed")
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	require.Error(t, ctl.AdminLogin(context.Background(), "nope", "pw"))
	assert.Equal(t, "email address is malformed", ctl.Err())
}

func TestAdminLoginForbidden(t *testing.T) {
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, apperr.FromStatus("auth.adminLogin", 403, "")
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	require.Error(t, ctl.AdminLogin(context.Background(), "user@example.com", "pw"))
	assert.Equal(t, "Access denied. You do not have the required permissions.", ctl.Err())
}

func TestAdminLoginNetworkErrorUsesErrorText(t *testing.T) {
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, apperr.Network("auth.adminLogin", errors.New("connection refused"))
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	require.Error(t, ctl.AdminLogin(context.Background(), "ada@example.com", "pw"))
	assert.Equal(t, "connection refused", ctl.Err())
}

func TestFailedReloginDropsHeldIdentity(t *testing.T) {
	calls := 0
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			calls++
			if calls == 1 {
				return adminUser, nil
			}
			return nil, apperr.FromStatus("auth.adminLogin", 401, "")
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	require.NoError(t, ctl.AdminLogin(context.Background(), "ada@example.com", "pw"))
	require.NotNil(t, ctl.CurrentUser())

	require.Error(t, ctl.AdminLogin(context.Background(), "ada@example.com", "stale"))
	assert.Equal(t, session.StateUnauthenticated, ctl.State())
	assert.Nil(t, ctl.CurrentUser(), "an unauthenticated controller holds no identity")
}

func TestAdminLoginClearsPreviousError(t *testing.T) {
	calls := 0
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			calls++
			if calls == 1 {
				return nil, apperr.FromStatus("auth.adminLogin", 401, "")
			}
			return adminUser, nil
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	require.Error(t, ctl.AdminLogin(context.Background(), "ada@example.com", "bad"))
	require.NotEmpty(t, ctl.Err())
	require.NoError(t, ctl.AdminLogin(context.Background(), "ada@example.com", "good"))
	assert.Empty(t, ctl.Err())
}

func TestLogoutClearsEvenWhenRemoteCallFails(t *testing.T) {
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return adminUser, nil
		},
		logoutErr: errors.New("gateway timeout"),
	}
	ctl, nav, _ := newTestController(gw)
	defer ctl.Close()

	require.NoError(t, ctl.AdminLogin(context.Background(), "ada@example.com", "pw"))
	ctl.Logout(context.Background())

	assert.Nil(t, ctl.CurrentUser())
	assert.Equal(t, session.StateUnauthenticated, ctl.State())
	assert.Equal(t, []session.Route{session.RouteDashboard, session.RouteLogin}, nav.Routes())
	assert.Equal(t, 1, gw.ClearCalls())
}

func TestLogoutConsultsGuardBeforeRemoteCall(t *testing.T) {
	gw := &fakeGateway{}
	ctl, nav, _ := newTestController(gw)
	defer ctl.Close()

	ctl.Logout(context.Background())

	assert.Equal(t, 1, gw.CSRFCalls(), "the anti-forgery token is refreshed before the remote logout")
	assert.Equal(t, 1, gw.LogoutCalls())
	assert.Equal(t, session.StateUnauthenticated, ctl.State())
	assert.Equal(t, []session.Route{session.RouteLogin}, nav.Routes())
}

func TestLogoutSwallowsRefreshFailure(t *testing.T) {
	gw := &fakeGateway{csrfErr: errors.New("csrf endpoint down")}
	ctl, nav, _ := newTestController(gw)
	defer ctl.Close()

	ctl.Logout(context.Background())

	assert.Zero(t, gw.LogoutCalls(), "a failed refresh skips the remote call")
	assert.Nil(t, ctl.CurrentUser())
	assert.Equal(t, session.StateUnauthenticated, ctl.State(), "local clearing happens regardless")
	assert.Equal(t, 1, gw.ClearCalls())
	assert.Equal(t, []session.Route{session.RouteLogin}, nav.Routes())
}

func TestForcedLogoutClearsAndRedirectsOnce(t *testing.T) {
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return adminUser, nil
		},
	}
	ctl, nav, sig := newTestController(gw)
	defer ctl.Close()

	require.NoError(t, ctl.AdminLogin(context.Background(), "ada@example.com", "pw"))

	sig.Raise()
	assert.Nil(t, ctl.CurrentUser())
	assert.Equal(t, session.StateUnauthenticated, ctl.State())

	sig.Raise()
	assert.Equal(t, []session.Route{session.RouteDashboard, session.RouteLogin}, nav.Routes(),
		"an already-cleared controller must not redirect again")
}

func TestForcedLogoutIgnoredAfterClose(t *testing.T) {
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return adminUser, nil
		},
	}
	ctl, _, sig := newTestController(gw)

	require.NoError(t, ctl.AdminLogin(context.Background(), "ada@example.com", "pw"))
	ctl.Close()
	sig.Raise()

	assert.NotNil(t, ctl.CurrentUser(), "a closed controller no longer observes the signal")
}

func TestUpdateProfileFailureKeepsIdentity(t *testing.T) {
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return adminUser, nil
		},
		updateFn: func(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
			return nil, apperr.FromStatus("auth.updateProfile", 422, "email already taken")
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	require.NoError(t, ctl.AdminLogin(context.Background(), "ada@example.com", "pw"))

	ok := ctl.UpdateProfile(context.Background(), domain.ProfileUpdate{Email: "taken@example.com"})
	assert.False(t, ok)
	assert.Equal(t, "email already taken", ctl.Err())
	require.NotNil(t, ctl.CurrentUser())
	assert.Equal(t, "ada@example.com", ctl.CurrentUser().Email, "failed update leaves identity untouched")
	assert.Equal(t, session.StateAuthenticated, ctl.State(), "failed update does not log the user out")
}

func TestUpdateProfileSuccessReplacesIdentity(t *testing.T) {
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return adminUser, nil
		},
		updateFn: func(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
			return &domain.User{ID: "u1", Name: "Ada L.", Email: "ada@example.com", Role: domain.RoleAdmin}, nil
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	require.NoError(t, ctl.AdminLogin(context.Background(), "ada@example.com", "pw"))
	require.True(t, ctl.UpdateProfile(context.Background(), domain.ProfileUpdate{Name: "Ada L."}))
	assert.Equal(t, "Ada L.", ctl.CurrentUser().Name)
}

func TestRegisterDoesNotAuthenticate(t *testing.T) {
	gw := &fakeGateway{}
	ctl, nav, _ := newTestController(gw)
	defer ctl.Close()

	ctl.Bootstrap(context.Background())
	ok, err := ctl.Register(context.Background(), domain.Registration{
		Name: "New Admin", Email: "new@example.com", Password: "secret",
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, ctl.CurrentUser())
	assert.Equal(t, session.StateUnauthenticated, ctl.State())
	assert.Empty(t, nav.Routes())
}

func TestRegisterFailureRecordsAndReturnsError(t *testing.T) {
	gw := &fakeGateway{regErr: apperr.FromStatus("auth.register", 409, "email already registered")}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	ctl.Bootstrap(context.Background())
	ok, err := ctl.Register(context.Background(), domain.Registration{Email: "dup@example.com"})
	assert.False(t, ok)
	require.Error(t, err)
	assert.Equal(t, "email already registered", ctl.Err())
}

func TestRequireAdminDeniesCustomerRole(t *testing.T) {
	customer := &domain.User{ID: "u3", Name: "Cus", Email: "c@example.com", Role: domain.RoleCustomer}
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return customer, nil
		},
	}
	ctl, nav, _ := newTestController(gw)
	defer ctl.Close()

	require.NoError(t, ctl.AdminLogin(context.Background(), "c@example.com", "pw"))
	require.NotNil(t, ctl.CurrentUser(), "identity is present")

	assert.False(t, ctl.IsAdmin())
	assert.True(t, ctl.HasRole(domain.RoleCustomer))

	err := ctl.RequireAdmin()
	assert.ErrorIs(t, err, session.ErrNotAdmin)
	assert.Contains(t, nav.Routes(), session.RouteAccessDenied)
}

func TestRequireAdminRedirectsAnonymousToLogin(t *testing.T) {
	gw := &fakeGateway{}
	ctl, nav, _ := newTestController(gw)
	defer ctl.Close()

	ctl.Bootstrap(context.Background())
	err := ctl.RequireAdmin()
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.Equal(t, []session.Route{session.RouteLogin}, nav.Routes())
}

func TestClearError(t *testing.T) {
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, apperr.FromStatus("auth.adminLogin", 401, "")
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	require.Error(t, ctl.AdminLogin(context.Background(), "a@example.com", "pw"))
	require.NotEmpty(t, ctl.Err())
	ctl.ClearError()
	assert.Empty(t, ctl.Err())
}

func TestAdminLoginAbortedWhenCSRFRefreshFails(t *testing.T) {
	loginCalled := false
	gw := &fakeGateway{
		csrfErr: errors.New("csrf endpoint down"),
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			loginCalled = true
			return adminUser, nil
		},
	}
	ctl, _, _ := newTestController(gw)
	defer ctl.Close()

	err := ctl.AdminLogin(context.Background(), "ada@example.com", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrCSRFRefresh)
	assert.False(t, loginCalled, "the credential exchange must not run without a fresh token")
	assert.Nil(t, ctl.CurrentUser())
}
