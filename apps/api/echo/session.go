package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/walimu/walimu/core/session"
	"github.com/walimu/walimu/services/marketplace"
)

func (s *server) loginPage(ctx echo.Context) error {
	// an already-authenticated visitor goes straight to their dashboard
	if cookie, err := ctx.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if claims, err := s.parseToken(cookie.Value); err == nil {
			if _, err = s.sessSvc.Get(ctx.Request().Context(), claims.SID); err == nil {
				return ctx.Redirect(http.StatusFound, claims.Role.DashboardPath())
			}
		}
	}

	p := s.newPage(ctx, "Log in")
	p.Form = session.Credentials{}
	return ctx.Render(http.StatusOK, "login", p)
}

// login authenticates against the backend and opens the session. The landing
// page depends on the role the backend confirms, not on anything the form
// claimed.
func (s *server) login(ctx echo.Context) error {
	var data session.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	p := s.newPage(ctx, "Log in")
	p.Form = data

	if err := data.Validate(s.validate); err != nil {
		if flds, ok := s.fieldErrors(err); ok {
			p.FieldErrors = flds
			return ctx.Render(http.StatusBadRequest, "login", p)
		}
		return err
	}

	var role session.Role
	if data.Role != "" {
		role, _ = session.ParseRole(data.Role) // validated above
	}

	sess, err := s.sessSvc.Login(ctx.Request().Context(), data.Email, data.Password, role)
	if err != nil {
		if msg, ok := formMessage(err); ok {
			p.FormError = msg
			return ctx.Render(http.StatusOK, "login", p)
		}
		return errors.Wrap(err, "logging in")
	}

	if err = s.openSession(ctx, sess); err != nil {
		return err
	}
	return redirectSeeOther(ctx, sess.User.Role.DashboardPath())
}

func (s *server) signupPage(ctx echo.Context) error {
	p := s.newPage(ctx, "Sign up")
	p.Form = session.NewAccount{}
	return ctx.Render(http.StatusOK, "signup", p)
}

func (s *server) signup(ctx echo.Context) error {
	var data session.NewAccount
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAccount")
	}

	p := s.newPage(ctx, "Sign up")
	p.Form = data

	if err := data.Validate(s.validate); err != nil {
		if flds, ok := s.fieldErrors(err); ok {
			p.FieldErrors = flds
			return ctx.Render(http.StatusBadRequest, "signup", p)
		}
		return err
	}

	sess, err := s.sessSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		if msg, ok := formMessage(err); ok {
			p.FormError = msg
			return ctx.Render(http.StatusOK, "signup", p)
		}
		return errors.Wrap(err, "registering")
	}

	if err = s.openSession(ctx, sess); err != nil {
		return err
	}
	return redirectSeeOther(ctx, sess.User.Role.DashboardPath())
}

// logout clears the stored session (idempotently) and the cookie, whatever
// state either is in.
func (s *server) logout(ctx echo.Context) error {
	if cookie, err := ctx.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if claims, err := s.parseToken(cookie.Value); err == nil {
			if err = s.sessSvc.Logout(ctx.Request().Context(), claims.SID); err != nil {
				return errors.Wrap(err, "logging out")
			}
		}
	}
	s.clearSessionCookie(ctx)
	return redirectSeeOther(ctx, loginPath)
}

// switchRole is the dual-profile step-up: it re-authenticates with the target
// role's password and, on success, replaces the session in place. Any failure
// sends the user back to their current dashboard with the session untouched.
func (s *server) switchRole(ctx echo.Context) error {
	sess, err := s.getContextSession(ctx)
	if err != nil {
		return err
	}
	back := sess.User.Role.DashboardPath() + "?switch=failed"

	var data session.RoleSwitch
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RoleSwitch")
	}
	if err = data.Validate(s.validate); err != nil {
		return redirectSeeOther(ctx, back)
	}
	target, _ := session.ParseRole(data.Target) // validated above

	next, err := s.sessSvc.SwitchRole(ctx.Request().Context(), sess.SID, target, data.Password)
	if err != nil {
		if _, ok := formMessage(err); ok || errors.Cause(err) == session.ErrNoDualProfile {
			return redirectSeeOther(ctx, back)
		}
		return errors.Wrap(err, "switching role")
	}

	if err = s.openSession(ctx, next); err != nil {
		return err
	}
	return redirectSeeOther(ctx, next.User.Role.DashboardPath())
}

// openSession mints the session JWT for sess and sets the cookie.
func (s *server) openSession(ctx echo.Context, sess session.Session) error {
	token, err := s.generateToken(s.getSessionClaims(sess))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	s.setSessionCookie(ctx, token)
	return nil
}

// API handlers

func (s *server) apiRefreshToken(ctx echo.Context) error {
	token, err := s.refreshToken(ctx)
	if err != nil {
		return err
	}
	s.setSessionCookie(ctx, token)
	return ctx.JSON(http.StatusOK, echo.Map{"token": token})
}

// apiProfile re-fetches the account profile from the backend and returns the
// fresh copy. A backend auth error means the held token has expired: the
// session is cleared and the client must log in again.
func (s *server) apiProfile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	profile, err := s.sessSvc.RefreshProfile(ctx.Request().Context(), claims.SID)
	if err != nil {
		if marketplace.IsAuthError(err) {
			_ = s.sessSvc.Logout(ctx.Request().Context(), claims.SID)
			s.clearSessionCookie(ctx)
			return errUnauthorized
		}
		return err
	}
	if profile == nil {
		return errUnauthorized
	}
	return ctx.JSON(http.StatusOK, profile)
}
