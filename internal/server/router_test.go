package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/learnenglishzero/backend/internal/auth"
	"github.com/learnenglishzero/backend/internal/config"
	"github.com/learnenglishzero/backend/internal/items"
	"github.com/learnenglishzero/backend/internal/supabase"
)

func newTestRouter(t *testing.T, checks map[string]Checker) http.Handler {
	t.Helper()
	backend := supabase.NewLazy(func() (*supabase.Client, error) {
		return nil, supabase.ErrNotConfigured
	})
	return NewRouter(Deps{
		Auth:           auth.NewHandler(backend, auth.NewMemoryVerifierStore(), nil, "http://localhost:3000", false),
		Items:          items.NewHandler(),
		Checks:         checks,
		AllowedOrigins: config.DefaultAllowedOrigins,
		Logger:         zap.NewNop(),
	})
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestProbes(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/", `{"message":"Welcome to the Learn English API","status":"ok"}`},
		{"/hello", `{"message":"Hello from learnenglishzero API!","status":"ok"}`},
		{"/health", `{"status":"healthy","service":"learn-english-api"}`},
		{"/items/", `[{"name":"Item Foo"},{"name":"Item Bar"}]`},
		{"/items/hello", `{"message":"Hello from learnenglishzero API!"}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(h, tt.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestAuthMeRequiresBearer(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(h, "/auth/me")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Missing or invalid Authorization header. Use: Bearer <token>"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Missing or invalid Authorization header"}`, rec.Body.String())
}

func TestCallbackErrorNeedsNoBackend(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(h, "/auth/callback?error=access_denied")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(h, "/auth/callback")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"No authorization code provided"}`, rec.Body.String())
}

func TestLoginWithoutCredentials(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(h, "/auth/login/google")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to generate OAuth URL")
}

func TestCORS(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/auth/me", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestReady(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all ok", func(t *testing.T) {
		rec := get(newTestRouter(t, map[string]Checker{"supabase": ok, "postgres": ok}), "/health/ready")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready","checks":{"supabase":"ok","postgres":"ok"}}`, rec.Body.String())
	})

	t.Run("one down", func(t *testing.T) {
		rec := get(newTestRouter(t, map[string]Checker{"supabase": down, "redis": ok}), "/health/ready")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"degraded","checks":{"supabase":"unavailable","redis":"ok"}}`, rec.Body.String())
	})

	t.Run("no checks", func(t *testing.T) {
		rec := get(newTestRouter(t, nil), "/health/ready")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready","checks":{}}`, rec.Body.String())
	})
}
