package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/walimu/walimu/core"
	"github.com/walimu/walimu/core/session"
)

const (
	sessionCookieName = "walimu_session"
	contextSessionKey = "session"
)

// Claims represents the authorization claims transmitted via the session JWT.
// The token authenticates the browser to this portal only; the backend access
// token never leaves the session store.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64        `json:"oriat,omitempty"`
	SID          string       `json:"sid"`
	Email        string       `json:"email,omitempty"`
	Role         session.Role `json:"role,omitempty"`
	IsStudent    bool         `json:"is_student,omitempty"` // -> STUDENT DASHBOARD
	IsTutor      bool         `json:"is_tutor,omitempty"`   // -> TUTOR DASHBOARD
	IsAdmin      bool         `json:"is_admin,omitempty"`   // -> ADMIN DASHBOARD
	IsBursary    bool         `json:"is_bursary,omitempty"` // -> BURSARY DASHBOARD
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "sessionToken",
		Claims:        new(Claims),
	}
}

func (s *server) getSessionClaims(sess session.Session, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.conf.AppName,
			Subject:   sess.User.Email,
			Audience:  "Portal",
			ExpiresAt: now.Add(s.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		SID:          sess.SID,
		Email:        sess.User.Email,
		Role:         sess.User.Role,
		IsStudent:    sess.User.Role == session.RoleStudent,
		IsTutor:      sess.User.Role == session.RoleTutor,
		IsAdmin:      sess.User.Role == session.RoleAdmin,
		IsBursary:    sess.User.Role == session.RoleBursaryAdmin,
	}
}

// generateToken generates a signed JWT token string representing the Claims.
func (s *server) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(s.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(s.jwtConfig.SigningKey.([]byte))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func (s *server) parseToken(token string) (*Claims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.jwtConfig.SigningMethod {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtConfig.SigningKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errUnauthorized
	}
	return claims, nil
}

func (s *server) setSessionCookie(ctx echo.Context, token string) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.conf.Server.JWTExpirationDelta / time.Second),
		HttpOnly: true,
		Secure:   !s.conf.Debug,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *server) clearSessionCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !s.conf.Debug,
		SameSite: http.SameSiteLaxMode,
	})
}

// bearerFromCookie lets page scripts call /v1 with the session cookie alone.
// The JWT middleware only reads the Authorization header, and the cookie is
// HttpOnly, so without this no browser request could reach the API group.
func bearerFromCookie(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if ctx.Request().Header.Get(echo.HeaderAuthorization) == "" {
			if cookie, err := ctx.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				ctx.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+cookie.Value)
			}
		}
		return next(ctx)
	}
}

// getContextClaims returns the Claims set by either the JWT middleware (API
// routes) or the page guard (HTML routes).
func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get("sessionToken").(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	if claims, ok := ctx.Get("sessionClaims").(*Claims); ok {
		return *claims, nil
	}
	return Claims{}, errUnauthorized
}

// getContextSession loads the stored session for the request's claims,
// caching it on the context for the duration of the request.
func (s *server) getContextSession(ctx echo.Context) (session.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(session.Session); ok {
		return sess, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return session.Session{}, err
	}

	sess, err := s.sessSvc.Get(ctx.Request().Context(), claims.SID)
	if err != nil {
		if errors.Cause(err) == session.ErrNotFound {
			return session.Session{}, errUnauthorized
		}
		return session.Session{}, errors.Wrap(err, "loading session")
	}
	ctx.Set(contextSessionKey, sess)
	return sess, nil
}

// refreshToken reissues the session JWT as long as the refresh window allows.
func (s *server) refreshToken(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	sess, err := s.getContextSession(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context session")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(s.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := s.getSessionClaims(sess, claims.OrigIssuedAt)
	token, err := s.generateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}
