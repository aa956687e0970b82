package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/walimu/walimu/core"
	"github.com/walimu/walimu/core/session"
	"github.com/walimu/walimu/services/marketplace"
	placesvc "github.com/walimu/walimu/services/places"
	inmemstore "github.com/walimu/walimu/storage/sessionstore/inmem"
)

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

func testConfig() *core.Config {
	conf := &core.Config{
		Debug:     true,
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Walimu",
		SecretKey: "test-secret-key",
	}
	conf.Server.Addr = ":0"
	conf.Server.JWTExpirationDelta = time.Hour
	conf.Server.JWTRefreshExpirationDelta = 4 * time.Hour
	return conf
}

var fakeUsers = map[string]map[string]interface{}{
	"tok-student": {
		"email":             "dual@test.cd",
		"full_name":         "Dual User",
		"user_type":         "user",
		"has_tutor_profile": true,
	},
	"tok-tutor": {
		"email":               "dual@test.cd",
		"full_name":           "Dual User",
		"user_type":           "tutor",
		"has_student_profile": true,
	},
	"tok-admin": {
		"email":     "admin@test.cd",
		"full_name": "The Admin",
		"user_type": "admin",
	},
	"tok-bursary_admin": {
		"email":        "bursar@test.cd",
		"full_name":    "The Bursar",
		"user_type":    "bursary_admin",
		"bursary_name": "Hope Foundation",
	},
}

// newFakeBackend fakes the marketplace API: password "secret" logs anyone in,
// tokens are "tok-<role>", everything else returns empty collections.
func newFakeBackend() *httptest.Server {
	writeErr := func(w http.ResponseWriter, code int, msg string) {
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "secret" {
			writeErr(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		role := body.Role
		if role == "" || role == "user" {
			role = "student"
		}
		token := "tok-" + role
		user, ok := fakeUsers[token]
		if !ok {
			writeErr(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"token": token, "user": user})
	})

	mux.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		user, ok := fakeUsers[token]
		if !ok {
			writeErr(w, http.StatusUnauthorized, "Token expired")
			return
		}
		_ = json.NewEncoder(w).Encode(user)
	})

	mux.HandleFunc("/tutor-requests", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost { // anonymous requests allowed
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"req-1","status":"pending"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"req-1","student_name":"Amina Yusuf","subject":"Mathematics",` +
			`"level":"Secondary","status":"pending","created_at":"2026-08-01T10:00:00Z"}]`))
	})

	mux.HandleFunc("/chats", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeErr(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		_, _ = w.Write([]byte(`[{"id":"chat-1","participant":"Tutor Tee","last_message":"See you at 4",` +
			`"updated_at":"2026-08-20T16:00:00Z"}]`))
	})

	mux.HandleFunc("/user-profiles", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeErr(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		_, _ = w.Write([]byte(`[{"id":"u-1","full_name":"Tutor Tee","email":"tee@test.cd",` +
			`"user_type":"tutor","active":true}]`))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeErr(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/summary"),
			strings.HasSuffix(path, "/stats"),
			strings.Contains(path, "/analytics/"),
			strings.HasSuffix(path, "/approve"),
			strings.HasSuffix(path, "/reject"),
			strings.HasSuffix(path, "/generate-code"),
			strings.HasSuffix(path, "/verify"):
			_, _ = w.Write([]byte(`{}`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	})

	return httptest.NewServer(mux)
}

type testEnv struct {
	srv     *server
	store   session.Store
	sessSvc *session.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	backend := newFakeBackend()
	t.Cleanup(backend.Close)

	conf := testConfig()
	store := inmemstore.New()
	market := marketplace.NewClientForURL(backend.URL)
	sessSvc := session.NewService(store, market, nil, conf, testLogger{})

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, ok := uni.GetTranslator("en")
	require.True(t, ok)
	validate := validator.New()
	core.InitValidators(validate, translator)
	session.InitValidators(validate, translator)

	srv := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     testLogger{},
		SessSvc:    sessSvc,
		Market:     market,
		Places:     placesvc.NewService(conf),
		Validate:   validate,
		Translator: translator,
	}).(*server)

	return &testEnv{srv: srv, store: store, sessSvc: sessSvc}
}

// authenticate opens a session the way a successful login would and returns it
// with its session cookie.
func (env *testEnv) authenticate(t *testing.T, role session.Role) (session.Session, *http.Cookie) {
	t.Helper()

	sess, err := env.sessSvc.Login(context.Background(), string(role)+"@test.cd", "secret", role)
	require.NoError(t, err)

	token, err := env.srv.generateToken(env.srv.getSessionClaims(sess))
	require.NoError(t, err)
	return sess, &http.Cookie{Name: sessionCookieName, Value: token}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)
	return rec
}

func formRequest(path string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func getRequest(path string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}
