package supabase

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// User is the auth service's view of an account.
type User struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	UserMetadata     map[string]any `json:"user_metadata"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at"`
	CreatedAt        *time.Time     `json:"created_at"`
	LastSignInAt     *time.Time     `json:"last_sign_in_at"`
}

// Metadata returns a non-empty string value from user_metadata, or nil.
func (u *User) Metadata(key string) *string {
	if u == nil || u.UserMetadata == nil {
		return nil
	}
	s, ok := u.UserMetadata[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// Session is an access/refresh token pair with its owner.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// APIError is a non-2xx answer from the auth service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth service returned %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("auth service returned %d: %s", e.Status, e.Message)
}

// GoTrue has answered with a few error body shapes over time.
type errorBody struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func parseAPIError(status int, raw []byte) *APIError {
	e := &APIError{Status: status}
	var b errorBody
	if err := json.Unmarshal(raw, &b); err != nil {
		e.Message = strings.TrimSpace(string(raw))
		return e
	}
	e.Code = firstNonEmpty(b.ErrorCode, b.Error)
	if s, ok := b.Code.(string); ok && e.Code == "" {
		e.Code = s
	}
	e.Message = firstNonEmpty(b.Msg, b.Message, b.ErrorDescription, b.Error, strings.TrimSpace(string(raw)))
	return e
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
