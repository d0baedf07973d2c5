package cmd

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shopkit-dev/shopctl/client"
	"github.com/shopkit-dev/shopctl/cmd/shopctl/config"
	"github.com/shopkit-dev/shopctl/csrf"
	"github.com/shopkit-dev/shopctl/gateway"
	"github.com/shopkit-dev/shopctl/logout"
	"github.com/shopkit-dev/shopctl/session"
	"github.com/shopkit-dev/shopctl/transport"
)

// app wires the console core for one command invocation: shared transport,
// auth gateway, CSRF guard, session controller and resource clients.
type app struct {
	ctl *client.API
	ses *session.Controller
	gw  *gateway.HTTPGateway
}

// cliNavigator renders the controller's redirect requests as terminal
// hints; the CLI has no screens to switch.
type cliNavigator struct{}

func (cliNavigator) NavigateTo(route session.Route) {
	switch route {
	case session.RouteLogin:
		fmt.Fprintln(os.Stderr, "Signed out. Run 'shopctl auth login' to sign in.")
	case session.RouteAccessDenied:
		fmt.Fprintln(os.Stderr, "Access denied: this account may not use the admin console.")
	case session.RouteDashboard:
		// Successful login needs no terminal redirect.
	}
}

// newApp assembles the console core from the current CLI context. The
// returned cleanup detaches the controller from the forced-logout signal.
func newApp() (*app, func(), error) {
	cliCtx, err := config.GetCurrentContext()
	if err != nil {
		return nil, nil, fmt.Errorf("%w; run 'shopctl config set-context <name> --server <url>' first", err)
	}
	jarPath, err := cliCtx.CookieJarPath()
	if err != nil {
		return nil, nil, err
	}

	sig := logout.NewSignal()
	t, err := transport.New(transport.Options{
		BaseURL: cliCtx.ServerEndpoint,
		JarPath: jarPath,
		Signal:  sig,
		Logger:  appLogger,
	})
	if err != nil {
		return nil, nil, err
	}

	gw := gateway.New(t, appLogger)
	guard := csrf.New(gw, appLogger)
	ses := session.NewController(gw, guard, cliNavigator{}, sig, appLogger)
	a := &app{
		ctl: client.NewAPI(t, guard),
		ses: ses,
		gw:  gw,
	}
	return a, ses.Close, nil
}

// requireAdmin builds the app, resolves the startup session check and
// applies the admin route gate. Resource commands all pass through here.
func requireAdmin(ctx context.Context) (*app, func(), error) {
	a, cleanup, err := newApp()
	if err != nil {
		return nil, nil, err
	}
	a.ses.Bootstrap(ctx)
	if err := a.ses.RequireAdmin(); err != nil {
		cleanup()
		return nil, nil, err
	}
	return a, cleanup, nil
}

// printYAML renders v as YAML on stdout.
func printYAML(v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
