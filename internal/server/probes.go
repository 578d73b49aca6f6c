package server

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/learnenglishzero/backend/internal/logger"
	"github.com/learnenglishzero/backend/internal/models"
	"github.com/learnenglishzero/backend/internal/utils"
)

const checkTimeout = 3 * time.Second

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

type statusResponse struct {
	Message string `json:"message,omitempty"`
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

type readyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func root(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, statusResponse{Message: "Welcome to the Learn English API", Status: "ok"})
}

func hello(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, statusResponse{Message: models.MsgHello, Status: "ok"})
}

func health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, statusResponse{Status: "healthy", Service: "learn-english-api"})
}

// ready runs every check concurrently. Any failure turns the response into
// a 503.
func ready(checks map[string]Checker) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		var (
			mu      sync.Mutex
			results = make(map[string]string, len(names))
			healthy = true
		)

		var g errgroup.Group
		for _, name := range names {
			check := checks[name]
			g.Go(func() error {
				ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
				defer cancel()
				err := check(ctx)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					logger.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
					results[name] = "unavailable"
					healthy = false
					return nil
				}
				results[name] = "ok"
				return nil
			})
		}
		_ = g.Wait()

		if !healthy {
			utils.WriteJSON(w, http.StatusServiceUnavailable, readyResponse{Status: "degraded", Checks: results})
			return
		}
		utils.WriteJSON(w, http.StatusOK, readyResponse{Status: "ready", Checks: results})
	}
}
