package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/learnenglishzero/backend/internal/logger"
	"github.com/learnenglishzero/backend/internal/models"
	"github.com/learnenglishzero/backend/internal/utils"
)

const (
	bearerPrefix = "Bearer "

	// MissingBearerDetail is returned by RequireBearer when the Authorization
	// header is absent or does not use the Bearer scheme.
	MissingBearerDetail = "Missing or invalid Authorization header. Use: Bearer <token>"

	// MissingAuthHeaderDetail is the shorter message used on logout.
	MissingAuthHeaderDetail = "Missing or invalid Authorization header"
)

type ctxKey int

const (
	tokenKey ctxKey = iota
	claimsKey
)

// ExtractBearer returns the token of an "Authorization: Bearer <token>"
// header. The scheme match is case-sensitive.
func ExtractBearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	return token, token != ""
}

// RequireBearer rejects requests without a bearer token and injects the
// token into the request context. The token is not validated here.
func RequireBearer(next http.Handler) http.Handler {
	return RequireBearerDetail(MissingBearerDetail)(next)
}

// RequireBearerDetail is RequireBearer with a custom 401 detail.
func RequireBearerDetail(detail string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := ExtractBearer(r)
			if !ok {
				utils.WriteDetail(w, http.StatusUnauthorized, detail)
				return
			}

			ctx := context.WithValue(r.Context(), tokenKey, token)
			if claims, ok := PeekClaims(token); ok {
				ctx = context.WithValue(ctx, claimsKey, claims)
				logger.Debug("bearer token presented", zap.String("sub", claims.Sub))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken returns the token stored by RequireBearer.
func BearerToken(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey).(string)
	return s
}

// Claims returns the unverified claims stored by RequireBearer, if the token
// was a parseable JWT.
func Claims(ctx context.Context) *models.TokenData {
	c, _ := ctx.Value(claimsKey).(*models.TokenData)
	return c
}

// PeekClaims decodes a JWT payload WITHOUT checking its signature. The result
// is only fit for logging; the auth service remains the authority.
func PeekClaims(token string) (*models.TokenData, bool) {
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, false
	}
	if claims.Subject == "" {
		return nil, false
	}
	td := &models.TokenData{Sub: claims.Subject, Email: claims.Email}
	if claims.ExpiresAt != nil {
		td.Exp = claims.ExpiresAt.Unix()
	}
	return td, true
}

type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}
