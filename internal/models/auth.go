package models

import "time"

const (
	MsgAuthSuccess    = "Authentication successful"
	MsgGoogleRedirect = "Redirect to this URL to authenticate with Google"
	MsgLoggedOut      = "Logged out successfully"
	MsgHello          = "Hello from learnenglishzero API!"
	TokenTypeBearer   = "bearer"
)

// UserBase holds the profile fields shared by user shapes.
type UserBase struct {
	Email     string  `json:"email"`
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// UserResponse is the API shape of a users row.
type UserResponse struct {
	UserBase
	ID        string    `json:"id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenData is the subset of access-token claims the API cares about.
type TokenData struct {
	Sub   string `json:"sub"`
	Email string `json:"email,omitempty"`
	Exp   int64  `json:"exp,omitempty"`
}

// UserProfile is the identity returned after a code exchange.
type UserProfile struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// SessionTokens is the token half of a code-exchange response.
type SessionTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthResponse is returned by GET /auth/callback.
type AuthResponse struct {
	Message string        `json:"message"`
	User    UserProfile   `json:"user"`
	Session SessionTokens `json:"session"`
}

// GoogleAuthURL is returned by GET /auth/login/google.
type GoogleAuthURL struct {
	URL     string `json:"url"`
	Message string `json:"message"`
	FlowID  string `json:"flow_id,omitempty"`
}

// SessionResponse is returned by POST /auth/refresh.
type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// CurrentUser is returned by GET /auth/me.
type CurrentUser struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FullName      *string    `json:"full_name"`
	AvatarURL     *string    `json:"avatar_url"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     *time.Time `json:"created_at"`
	LastSignIn    *time.Time `json:"last_sign_in"`
}

// RefreshRequest is the optional JSON body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse is a bare {"message": ...} payload.
type MessageResponse struct {
	Message string `json:"message"`
}
