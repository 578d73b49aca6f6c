package auth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/learnenglishzero/backend/internal/logger"
	"github.com/learnenglishzero/backend/internal/models"
	"github.com/learnenglishzero/backend/internal/supabase"
	"github.com/learnenglishzero/backend/internal/utils"
)

// httpError carries the status and client-facing detail of a failed
// request together with the underlying cause.
type httpError struct {
	status int
	detail string
	cause  error
}

func (e *httpError) Error() string {
	if e.cause != nil {
		return e.detail + ": " + e.cause.Error()
	}
	return e.detail
}

func (e *httpError) Unwrap() error { return e.cause }

func badRequest(detail string) *httpError {
	return &httpError{status: http.StatusBadRequest, detail: detail}
}

func unauthorized(detail string, cause error) *httpError {
	return &httpError{status: http.StatusUnauthorized, detail: detail, cause: cause}
}

func internal(detail string, cause error) *httpError {
	return &httpError{status: http.StatusInternalServerError, detail: detail, cause: cause}
}

// publicDetail is the message sent to the client. Upstream error text is
// only exposed in debug mode; configuration errors are always shown.
func (h *Handler) publicDetail(e *httpError) string {
	if e.cause == nil {
		return e.detail
	}
	if h.debug || errors.Is(e.cause, supabase.ErrNotConfigured) {
		return e.Error()
	}
	return e.detail
}

// fail logs e, records the failed event and writes the error response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, kind models.AuthEventKind, userID string, e *httpError) {
	fields := []zap.Field{
		zap.String("event", string(kind)),
		zap.Int("status", e.status),
		zap.Error(e),
	}
	if e.status >= http.StatusInternalServerError {
		logger.Error("auth request failed", fields...)
	} else {
		logger.Warn("auth request rejected", fields...)
	}
	h.record(r, kind, userID, e)
	utils.WriteDetail(w, e.status, h.publicDetail(e))
}
