package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/learnenglishzero/backend/internal/auth"
	"github.com/learnenglishzero/backend/internal/items"
	"github.com/learnenglishzero/backend/internal/middleware"
)

// Deps are the handlers and probes the router mounts.
type Deps struct {
	Auth           *auth.Handler
	Items          *items.Handler
	Checks         map[string]Checker
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter assembles the HTTP surface.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Probes
	r.Get("/", root)
	r.Get("/hello", hello)
	r.Get("/health", health)
	r.Get("/health/ready", ready(d.Checks))

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login/google", d.Auth.LoginGoogle)
		r.Get("/callback", d.Auth.Callback)
		r.Post("/refresh", d.Auth.Refresh)
		r.With(middleware.RequireBearer).Get("/me", d.Auth.Me)
		r.With(middleware.RequireBearerDetail(middleware.MissingAuthHeaderDetail)).Post("/logout", d.Auth.Logout)
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", d.Items.List)
		r.Get("/hello", d.Items.Hello)
	})

	return r
}
