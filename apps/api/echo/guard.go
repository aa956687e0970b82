package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/walimu/walimu/core/session"
)

// RouteDescriptor is static navigation + authorization config for a guarded
// page. An empty Roles list means "any authenticated role": a route that
// should be public is simply never wrapped by the guard.
type RouteDescriptor struct {
	Path  string
	Name  string
	Roles []session.Role
}

const (
	loginPath    = "/login"
	fallbackPath = "/"
)

// pageGuard protects HTML routes. Per navigation it lands in one of three
// states: unauthenticated (redirect to login), authenticated-unauthorized
// (redirect to the home fallback) or authenticated-authorized (render the
// wrapped view unchanged). Redirects replace the location outright, so there
// is no back-navigation loop through the guard.
func (s *server) pageGuard(roles ...session.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			cookie, err := ctx.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				return ctx.Redirect(http.StatusFound, loginPath)
			}

			claims, err := s.parseToken(cookie.Value)
			if err != nil {
				s.clearSessionCookie(ctx)
				return ctx.Redirect(http.StatusFound, loginPath)
			}

			// the cookie only proves identity; the session entries are the
			// source of truth and may have been cleared by a logout elsewhere
			sess, err := s.sessSvc.Get(ctx.Request().Context(), claims.SID)
			if err != nil {
				if errors.Cause(err) == session.ErrNotFound {
					s.clearSessionCookie(ctx)
					return ctx.Redirect(http.StatusFound, loginPath)
				}
				return errors.Wrap(err, "loading session")
			}

			if len(roles) > 0 && !sess.User.Role.In(roles) {
				return ctx.Redirect(http.StatusFound, fallbackPath)
			}

			ctx.Set("sessionClaims", claims)
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}

// roleMiddleware protects API routes already behind the JWT middleware: 403
// when the authenticated role is not in the allow-list. An empty list admits
// any authenticated role.
func (s *server) roleMiddleware(roles ...session.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if len(roles) > 0 && !claims.Role.In(roles) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
