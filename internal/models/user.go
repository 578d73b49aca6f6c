package models

import (
	"time"

	"github.com/google/uuid"
)

// Timestamps is embedded by every table with created_at/updated_at columns.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Touch sets UpdatedAt, and CreatedAt when it is still zero.
func (t *Timestamps) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// User mirrors a row of the users table. Rows are owned by the auth service;
// the struct exists so the schema in store/migrations has a Go counterpart.
type User struct {
	ID        string  `json:"id"         db:"id"`
	Email     string  `json:"email"      db:"email"`
	FullName  *string `json:"full_name"  db:"full_name"`
	AvatarURL *string `json:"avatar_url" db:"avatar_url"`
	IsActive  bool    `json:"is_active"  db:"is_active"`
	Timestamps
}

// NewUser returns a User with a fresh UUID, active, and timestamps set.
func NewUser(email string) *User {
	u := &User{
		ID:       uuid.NewString(),
		Email:    email,
		IsActive: true,
	}
	u.Touch(time.Now().UTC())
	return u
}

func (u *User) String() string {
	return "<User(id=" + u.ID + ", email=" + u.Email + ")>"
}

// Response converts the row into its API shape.
func (u *User) Response() UserResponse {
	return UserResponse{
		UserBase: UserBase{
			Email:     u.Email,
			FullName:  u.FullName,
			AvatarURL: u.AvatarURL,
		},
		ID:        u.ID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
