package auth

import (
	"context"

	"github.com/learnenglishzero/backend/internal/models"
)

// EventRecorder persists auth event outcomes.
type EventRecorder interface {
	Record(ctx context.Context, ev *models.AuthEvent) error
}

// NopRecorder drops every event.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, *models.AuthEvent) error { return nil }
