// Package gate provides the route-gating middleware: a protected variant
// that only renders its subtree for authenticated sessions, and a public
// variant that sends authenticated users to the dashboard instead of the
// login and signup pages. Both re-run the session check on every request,
// so navigation always sees fresh token state.
package gate

import (
	"context"
	"net/http"
	"time"

	"github.com/goliatone/go-router"

	"github.com/finmind/finmind-go"
)

const (
	defaultLoginRoute    = "/login"
	defaultDefaultRoute  = "/dashboard"
	defaultWaitingView   = "waiting"
	defaultRejectedRoute = "rejected_route"
)

// Session is the slice of the session controller the gates consume.
type Session interface {
	CheckAuth(ctx context.Context) bool
	State() finmind.SessionState
}

type Config struct {
	Session Session
	// LoginRoute is where unauthenticated users of protected routes go.
	LoginRoute string
	// DefaultRoute is where authenticated users of public routes go.
	DefaultRoute string
	// WaitingView renders while the session is still unresolved. No
	// children render and no redirect happens in that window.
	WaitingView string
	// RejectedRouteKey names the cookie remembering where an
	// unauthenticated user was headed.
	RejectedRouteKey string
	// ErrorHandler handles render failures of the waiting view.
	ErrorHandler router.ErrorHandler
}

func withDefaults(cfg Config) Config {
	if cfg.Session == nil {
		panic("GATE: middleware configuration: Session is required.")
	}
	if cfg.LoginRoute == "" {
		cfg.LoginRoute = defaultLoginRoute
	}
	if cfg.DefaultRoute == "" {
		cfg.DefaultRoute = defaultDefaultRoute
	}
	if cfg.WaitingView == "" {
		cfg.WaitingView = defaultWaitingView
	}
	if cfg.RejectedRouteKey == "" {
		cfg.RejectedRouteKey = defaultRejectedRoute
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			return c.Status(http.StatusInternalServerError).SendString(err.Error())
		}
	}
	return cfg
}

// Protected gates a subtree behind an authenticated session. Unresolved
// sessions get the waiting view, unauthenticated ones are redirected to
// the login route, and the wrapped handler only ever runs authenticated.
func Protected(config Config) router.MiddlewareFunc {
	cfg := withDefaults(config)
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			authenticated := cfg.Session.CheckAuth(ctx.Context())

			if cfg.Session.State().Loading() {
				return cfg.render(ctx, cfg.WaitingView)
			}

			if !authenticated {
				SetRedirect(ctx, cfg.RejectedRouteKey)
				return ctx.Redirect(cfg.LoginRoute, redirectStatus(ctx))
			}

			return next(ctx)
		}
	}
}

// Public gates entry pages: an authenticated session is redirected to the
// configured destination instead of seeing the children.
func Public(config Config) router.MiddlewareFunc {
	cfg := withDefaults(config)
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			authenticated := cfg.Session.CheckAuth(ctx.Context())

			if cfg.Session.State().Loading() {
				return cfg.render(ctx, cfg.WaitingView)
			}

			if authenticated {
				return ctx.Redirect(cfg.DefaultRoute, redirectStatus(ctx))
			}

			return next(ctx)
		}
	}
}

func (cfg Config) render(ctx router.Context, view string) error {
	if err := ctx.Render(view, router.ViewContext{}); err != nil {
		return cfg.ErrorHandler(ctx, err)
	}
	return nil
}

// SetRedirect remembers the rejected route so the login flow can send the
// user back after authenticating.
func SetRedirect(ctx router.Context, key string) {
	if key == "" {
		key = defaultRejectedRoute
	}

	ctx.Cookie(&router.Cookie{
		Name:     key,
		Value:    ctx.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// GetRedirect consumes the remembered rejected route, falling back to def.
func GetRedirect(ctx router.Context, key string, def string) string {
	if key == "" {
		key = defaultRejectedRoute
	}

	r := ctx.Cookies(key)
	if r == "" {
		return def
	}

	ctx.Cookie(&router.Cookie{
		Name:     key,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})

	return r
}

func redirectStatus(ctx router.Context) int {
	if ctx.Method() == string(router.GET) {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
