package echoapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walimu/walimu/core/session"
)

func Test_pageGuard_unauthenticated(t *testing.T) {
	env := setup(t)

	tests := []struct {
		name string
		req  *http.Request
	}{
		{name: "no cookie", req: getRequest("/dashboard/student")},
		{name: "empty cookie", req: getRequest("/dashboard/student", &http.Cookie{Name: sessionCookieName, Value: ""})},
		{name: "garbage cookie", req: getRequest("/dashboard/student", &http.Cookie{Name: sessionCookieName, Value: "not-a-jwt"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.req)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
		})
	}
}

func Test_pageGuard_sessionClearedElsewhere(t *testing.T) {
	env := setup(t)
	sess, cookie := env.authenticate(t, session.RoleStudent)

	// a logout in another tab cleared the stored session; the cookie alone
	// does not keep the user in
	require.NoError(t, env.sessSvc.Logout(context.Background(), sess.SID))

	rec := env.do(getRequest("/dashboard/student", cookie))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// and the stale cookie is dropped
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "stale session cookie should be cleared")
}

func Test_pageGuard_wrongRole(t *testing.T) {
	env := setup(t)

	tests := []struct {
		role session.Role
		path string
	}{
		{role: session.RoleStudent, path: "/dashboard/admin"},
		{role: session.RoleStudent, path: "/dashboard/tutor"},
		{role: session.RoleTutor, path: "/dashboard/student"},
		{role: session.RoleAdmin, path: "/dashboard/bursary"},
		{role: session.RoleBursaryAdmin, path: "/dashboard/admin/requests"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+" -> "+tt.path, func(t *testing.T) {
			_, cookie := env.authenticate(t, tt.role)
			rec := env.do(getRequest(tt.path, cookie))
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/", rec.Header().Get("Location"), "unauthorized role lands on the home fallback, not login")
		})
	}
}

func Test_pageGuard_authorized(t *testing.T) {
	env := setup(t)

	tests := []struct {
		role     session.Role
		path     string
		wantBody string
	}{
		{role: session.RoleStudent, path: "/dashboard/student", wantBody: "Student Dashboard"},
		{role: session.RoleStudent, path: "/dashboard/student/lessons", wantBody: "Student Dashboard"},
		{role: session.RoleTutor, path: "/dashboard/tutor", wantBody: "Tutor Dashboard"},
		{role: session.RoleAdmin, path: "/dashboard/admin", wantBody: "Admin Dashboard"},
		{role: session.RoleAdmin, path: "/dashboard/admin/analytics", wantBody: "Admin Dashboard"},
		{role: session.RoleBursaryAdmin, path: "/dashboard/bursary", wantBody: "Bursary Admin Dashboard"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+" -> "+tt.path, func(t *testing.T) {
			_, cookie := env.authenticate(t, tt.role)
			rec := env.do(getRequest(tt.path, cookie))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func Test_pageGuard_anyAuthenticatedRole(t *testing.T) {
	env := setup(t)

	// /dashboard has no role list: any authenticated role is dispatched to
	// its own dashboard
	for role, want := range map[session.Role]string{
		session.RoleStudent:      "/dashboard/student",
		session.RoleTutor:        "/dashboard/tutor",
		session.RoleAdmin:        "/dashboard/admin",
		session.RoleBursaryAdmin: "/dashboard/bursary",
	} {
		_, cookie := env.authenticate(t, role)
		rec := env.do(getRequest("/dashboard", cookie))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, want, rec.Header().Get("Location"))
	}
}

func Test_pageGuard_unknownSection(t *testing.T) {
	env := setup(t)
	_, cookie := env.authenticate(t, session.RoleStudent)

	rec := env.do(getRequest("/dashboard/student/nonsense", cookie))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_roleMiddleware_api(t *testing.T) {
	env := setup(t)

	t.Run("missing token", func(t *testing.T) {
		req := getRequest("/v1/chats")
		rec := env.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"missing or malformed jwt"}`, rec.Body.String())
	})

	t.Run("wrong role gets json 403, not a redirect", func(t *testing.T) {
		_, cookie := env.authenticate(t, session.RoleStudent)
		req := httptest.NewRequest(http.MethodDelete, "/v1/user-profiles/x", nil) // admin group
		req.Header.Set("Authorization", "Bearer "+cookie.Value)

		rec := env.do(req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"permission denied"}`, rec.Body.String())
	})

	t.Run("allowed role passes", func(t *testing.T) {
		_, cookie := env.authenticate(t, session.RoleStudent)
		req := getRequest("/v1/chats")
		req.Header.Set("Authorization", "Bearer "+cookie.Value)

		rec := env.do(req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "chat-1")
	})

	t.Run("session cookie alone authenticates", func(t *testing.T) {
		// page scripts have no access to the HttpOnly cookie's value, so the
		// cookie itself must be accepted
		_, cookie := env.authenticate(t, session.RoleStudent)
		rec := env.do(getRequest("/v1/chats", cookie))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "chat-1")
	})
}
