package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/learnenglishzero/backend/internal/logger"
	"github.com/learnenglishzero/backend/internal/middleware"
	"github.com/learnenglishzero/backend/internal/models"
	"github.com/learnenglishzero/backend/internal/supabase"
	"github.com/learnenglishzero/backend/internal/utils"
)

const (
	providerGoogle = "google"
	recordTimeout  = 2 * time.Second
	maxBodyBytes   = 1 << 20
)

// Backend is the part of the auth service the handlers forward to.
type Backend interface {
	AuthorizeURL(provider, redirectTo, codeChallenge string) (string, error)
	ExchangeCode(ctx context.Context, authCode, codeVerifier string) (*supabase.Session, error)
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
	SignOut(ctx context.Context, accessToken string) error
	RefreshSession(ctx context.Context, refreshToken string) (*supabase.Session, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	backend     Backend
	verifiers   VerifierStore
	events      EventRecorder
	frontendURL string
	debug       bool
}

func NewHandler(backend Backend, verifiers VerifierStore, events EventRecorder, frontendURL string, debug bool) *Handler {
	if verifiers == nil {
		verifiers = NewMemoryVerifierStore()
	}
	if events == nil {
		events = NopRecorder{}
	}
	return &Handler{
		backend:     backend,
		verifiers:   verifiers,
		events:      events,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		debug:       debug,
	}
}

// LoginGoogle returns the Google sign-in URL. The PKCE verifier is stored
// under a fresh flow id which is appended to the redirect target so the
// callback can find it again.
func (h *Handler) LoginGoogle(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get("redirect_to")
	if redirect == "" {
		redirect = h.frontendURL + "/auth/callback"
	}

	flowID := uuid.NewString()
	redirect, err := withQueryParam(redirect, FlowIDParam, flowID)
	if err != nil {
		h.fail(w, r, models.EventLoginURL, "", badRequest("Invalid redirect_to"))
		return
	}

	verifier := oauth2.GenerateVerifier()
	authURL, err := h.backend.AuthorizeURL(providerGoogle, redirect, oauth2.S256ChallengeFromVerifier(verifier))
	if err != nil {
		h.fail(w, r, models.EventLoginURL, "", internal("Failed to generate OAuth URL", err))
		return
	}
	if err := h.verifiers.Save(r.Context(), flowID, verifier); err != nil {
		h.fail(w, r, models.EventLoginURL, "", internal("Failed to generate OAuth URL", err))
		return
	}

	h.record(r, models.EventLoginURL, "", nil)
	utils.WriteJSON(w, http.StatusOK, models.GoogleAuthURL{
		URL:     authURL,
		Message: models.MsgGoogleRedirect,
		FlowID:  flowID,
	})
}

// Callback exchanges the authorization code for a session.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if oauthErr := q.Get("error"); oauthErr != "" {
		detail := "OAuth error: " + oauthErr
		if desc := q.Get("error_description"); desc != "" {
			detail += " - " + desc
		}
		h.fail(w, r, models.EventCallback, "", badRequest(detail))
		return
	}

	code := q.Get("code")
	if code == "" {
		h.fail(w, r, models.EventCallback, "", badRequest("No authorization code provided"))
		return
	}

	var verifier string
	if flowID := q.Get(FlowIDParam); flowID != "" {
		v, err := h.verifiers.Take(r.Context(), flowID)
		if err != nil {
			h.fail(w, r, models.EventCallback, "", internal("Failed to authenticate", err))
			return
		}
		if v == "" {
			h.fail(w, r, models.EventCallback, "", unauthorized("Failed to authenticate", errors.New("unknown or expired login flow")))
			return
		}
		verifier = v
	}

	session, err := h.backend.ExchangeCode(r.Context(), code, verifier)
	if err == nil && (session == nil || session.User == nil) {
		err = errors.New("auth service returned no session")
	}
	if err != nil {
		h.fail(w, r, models.EventCallback, "", unauthorized("Failed to authenticate", err))
		return
	}

	user := session.User
	h.record(r, models.EventCallback, user.ID, nil)
	utils.WriteJSON(w, http.StatusOK, models.AuthResponse{
		Message: models.MsgAuthSuccess,
		User: models.UserProfile{
			ID:        user.ID,
			Email:     user.Email,
			FullName:  user.Metadata("full_name"),
			AvatarURL: user.Metadata("avatar_url"),
		},
		Session: models.SessionTokens{
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresIn:    session.ExpiresIn,
		},
	})
}

// Me returns the user owning the bearer token. Must run behind
// middleware.RequireBearer.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r.Context())

	user, err := h.backend.GetUser(r.Context(), token)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			h.fail(w, r, models.EventMe, subject(r), unauthorized("Invalid or expired token", err))
			return
		}
		h.fail(w, r, models.EventMe, subject(r), unauthorized("Authentication failed", err))
		return
	}

	h.record(r, models.EventMe, user.ID, nil)
	utils.WriteJSON(w, http.StatusOK, models.CurrentUser{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.Metadata("full_name"),
		AvatarURL:     user.Metadata("avatar_url"),
		EmailVerified: user.EmailConfirmedAt != nil,
		CreatedAt:     user.CreatedAt,
		LastSignIn:    user.LastSignInAt,
	})
}

// Logout signs out the bearer token's session. Must run behind
// middleware.RequireBearer.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r.Context())

	if err := h.backend.SignOut(r.Context(), token); err != nil {
		h.fail(w, r, models.EventLogout, subject(r), internal("Logout failed", err))
		return
	}

	h.record(r, models.EventLogout, subject(r), nil)
	utils.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: models.MsgLoggedOut})
}

// Refresh exchanges a refresh token for a new session. The token is read
// from the query string, a JSON body or a form body, in that order.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := refreshTokenFrom(r)
	if err != nil {
		h.fail(w, r, models.EventRefresh, "", badRequest("Invalid request body"))
		return
	}
	if refreshToken == "" {
		h.fail(w, r, models.EventRefresh, "", badRequest("refresh_token is required"))
		return
	}

	session, err := h.backend.RefreshSession(r.Context(), refreshToken)
	if err != nil {
		h.fail(w, r, models.EventRefresh, "", unauthorized("Token refresh failed", err))
		return
	}
	if session == nil || session.AccessToken == "" {
		h.fail(w, r, models.EventRefresh, "", unauthorized("Failed to refresh token", nil))
		return
	}

	var userID string
	if session.User != nil {
		userID = session.User.ID
	}
	h.record(r, models.EventRefresh, userID, nil)
	utils.WriteJSON(w, http.StatusOK, models.SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		TokenType:    models.TokenTypeBearer,
	})
}

// record stores the outcome of an auth operation. Failures are logged only.
func (h *Handler) record(r *http.Request, kind models.AuthEventKind, userID string, opErr error) {
	ev := &models.AuthEvent{
		Kind:      kind,
		UserID:    userID,
		Success:   opErr == nil,
		RemoteIP:  r.RemoteAddr,
		RequestID: chimw.GetReqID(r.Context()),
		CreatedAt: time.Now().UTC(),
	}
	if opErr != nil {
		ev.Error = opErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), recordTimeout)
	defer cancel()
	if err := h.events.Record(ctx, ev); err != nil {
		logger.Warn("record auth event", zap.String("event", string(kind)), zap.Error(err))
	}
}

func subject(r *http.Request) string {
	if c := middleware.Claims(r.Context()); c != nil {
		return c.Sub
	}
	return ""
}

func withQueryParam(raw, key, value string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse redirect: %w", err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func refreshTokenFrom(r *http.Request) (string, error) {
	if t := r.URL.Query().Get("refresh_token"); t != "" {
		return t, nil
	}
	if r.Body == nil || r.Body == http.NoBody {
		return "", nil
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		var req models.RefreshRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && err != io.EOF {
			return "", err
		}
		return req.RefreshToken, nil
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
		return r.PostFormValue("refresh_token"), nil
	}
	return "", nil
}
