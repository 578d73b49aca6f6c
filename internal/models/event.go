package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthEventKind names the auth operation an event was recorded for.
type AuthEventKind string

const (
	EventLoginURL AuthEventKind = "login_url"
	EventCallback AuthEventKind = "callback"
	EventMe       AuthEventKind = "me"
	EventLogout   AuthEventKind = "logout"
	EventRefresh  AuthEventKind = "refresh"
)

// AuthEvent is a single auth operation outcome stored in MongoDB.
type AuthEvent struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	Kind      AuthEventKind      `json:"kind"       bson:"kind"`
	UserID    string             `json:"user_id"    bson:"user_id,omitempty"`
	Success   bool               `json:"success"    bson:"success"`
	Error     string             `json:"error"      bson:"error,omitempty"`
	RemoteIP  string             `json:"remote_ip"  bson:"remote_ip,omitempty"`
	RequestID string             `json:"request_id" bson:"request_id,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
