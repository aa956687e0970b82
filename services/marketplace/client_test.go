package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walimu/walimu/core/session"
)

func TestClient_errorMessagesPassThroughVerbatim(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantAuth bool
	}{
		{name: "error field", status: http.StatusForbidden, body: `{"error":"Forbidden"}`, wantMsg: "Forbidden", wantAuth: true},
		{name: "message field", status: http.StatusBadRequest, body: `{"message":"Subject is required"}`, wantMsg: "Subject is required"},
		{name: "message preferred over error", status: http.StatusBadRequest, body: `{"message":"msg","error":"err"}`, wantMsg: "msg"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"Token expired"}`, wantMsg: "Token expired", wantAuth: true},
		{name: "empty body falls back", status: http.StatusNotFound, body: ``, wantMsg: "request failed: 404 /courses"},
		{name: "non-json body falls back", status: http.StatusBadGateway, body: `upstream says no`, wantMsg: "request failed: 502 /courses"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := NewClientForURL(ts.URL).Courses(context.Background(), "tok")
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.wantAuth, IsAuthError(err))
			assert.False(t, IsUnavailable(err))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestClient_bearerToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()
	client := NewClientForURL(ts.URL)

	_, err := client.Lessons(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)

	// no header at all when no token is held
	_, err = client.TutorRequests(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_unreachableBackend(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close() // nothing listening anymore

	_, err := NewClientForURL(ts.URL).Chats(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.False(t, IsAuthError(err))
	assert.Contains(t, err.Error(), ErrUnavailable.Error())
}

func TestClient_Login(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.cd", body["email"])
		_, roleSent := body["role"]
		assert.False(t, roleSent, "empty role must be omitted")

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "tok-1",
			"user": map[string]interface{}{
				"email":             "a@b.cd",
				"full_name":         "A B",
				"user_type":         "user", // legacy raw value
				"has_tutor_profile": true,
			},
		})
	}))
	defer ts.Close()

	res, err := NewClientForURL(ts.URL).Login(context.Background(), "a@b.cd", "pwd", "")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, session.RoleStudent, res.User.Role, `raw "user" resolves to student`)
	assert.True(t, res.User.HasTutor)
}

func TestClient_Login_unknownUserType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "tok-1",
			"user":  map[string]interface{}{"email": "a@b.cd", "user_type": "alien"},
		})
	}))
	defer ts.Close()

	_, err := NewClientForURL(ts.URL).Login(context.Background(), "a@b.cd", "pwd", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrUnknownRole)
}

func TestClient_VerifyPayment(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/verify", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(PaymentVerification{Reference: body["reference"], Status: "success", Verified: true})
	}))
	defer ts.Close()

	verification, err := NewClientForURL(ts.URL).VerifyPayment(context.Background(), "tok", "ref-1")
	require.NoError(t, err)
	assert.True(t, verification.Verified)
	assert.Equal(t, "ref-1", verification.Reference)
}
