package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"SUPABASE_URL", "SUPABASE_KEY", "APP_NAME", "DEBUG", "PORT", "FRONTEND_URL",
		"CORS_ALLOWED_ORIGINS", "HTTP_TIMEOUT", "DATABASE_URL", "REDIS_ADDR", "MONGO_URI",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "", cfg.SupabaseURL)
	assert.Equal(t, "", cfg.SupabaseKey)
	assert.Equal(t, "Learn English API", cfg.AppName)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, DefaultAllowedOrigins, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_KEY", "anon")
	t.Setenv("DEBUG", "true")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com/, ,https://b.example.com")
	t.Setenv("HTTP_TIMEOUT", "3s")

	cfg := Load()
	assert.Equal(t, "https://abc.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "anon", cfg.SupabaseKey)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "https://app.example.com", cfg.FrontendURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("DEBUG", "maybe")
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg := Load()
	assert.False(t, cfg.Debug)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}

func TestGet_Memoized(t *testing.T) {
	first := Get()
	require.NotNil(t, first)

	t.Setenv("APP_NAME", "something else")
	second := Get()
	assert.Same(t, first, second)
	assert.Equal(t, first.AppName, second.AppName)
}

func TestString_MasksKey(t *testing.T) {
	cfg := &Config{AppName: "x", SupabaseKey: "secret-key"}
	assert.NotContains(t, cfg.String(), "secret-key")
}

func TestLoad_OriginsDoNotAliasDefaults(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	want := append([]string(nil), DefaultAllowedOrigins...)

	cfg := Load()
	require.Equal(t, want, cfg.AllowedOrigins)
	cfg.AllowedOrigins[0] = "https://changed.example"

	assert.Equal(t, want, DefaultAllowedOrigins)
	assert.Equal(t, want, Load().AllowedOrigins)
}
