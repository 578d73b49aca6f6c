package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAllowedOrigins are the frontends allowed to call the API with credentials.
var DefaultAllowedOrigins = []string{
	"https://learnenglishzero.io.vn",
	"https://www.learnenglishzero.io.vn",
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// Config holds all service configuration loaded from environment variables.
type Config struct {
	// Supabase
	SupabaseURL string
	SupabaseKey string // anon/public key

	// App
	AppName        string
	Debug          bool
	Port           string
	FrontendURL    string
	AllowedOrigins []string
	HTTPTimeout    time.Duration

	// Storage
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	MongoURI      string
	MongoDB       string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads a fresh Config. A .env file in the working directory is
// loaded first; variables already present in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		SupabaseURL:    getenv("SUPABASE_URL", ""),
		SupabaseKey:    getenv("SUPABASE_KEY", ""),
		AppName:        getenv("APP_NAME", "Learn English API"),
		Debug:          getBool("DEBUG", false),
		Port:           getenv("PORT", "8000"),
		FrontendURL:    strings.TrimRight(getenv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", DefaultAllowedOrigins),
		HTTPTimeout:    getDuration("HTTP_TIMEOUT", 10*time.Second),
		DatabaseURL:    getenv("DATABASE_URL", ""),
		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		MongoURI:       getenv("MONGO_URI", ""),
		MongoDB:        getenv("MONGO_DB", "learn_english"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "console"),
	}
}

var (
	once   sync.Once
	cached *Config
)

// Get returns the process-wide Config, loading it on first use.
func Get() *Config {
	once.Do(func() {
		cached = Load()
	})
	return cached
}

// String returns a printable form of the config with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{App: %q, Port: %s, Supabase: %s, Key: %s, Debug: %t}",
		c.AppName, c.Port, c.SupabaseURL, mask(c.SupabaseKey), c.Debug)
}

func mask(s string) string {
	if s == "" {
		return "(unset)"
	}
	return "***"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return slices.Clone(fallback)
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return slices.Clone(fallback)
	}
	return out
}
