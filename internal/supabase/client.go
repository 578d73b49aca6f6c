// Package supabase adapts the Supabase Auth (GoTrue) SDK to the calls the
// API proxies.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	gotrue "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"
)

// ErrNotConfigured is returned when the service URL or key is blank.
var ErrNotConfigured = errors.New("supabase credentials not configured: set SUPABASE_URL and SUPABASE_KEY")

const (
	authPath       = "/auth/v1"
	defaultTimeout = 10 * time.Second
)

// Client calls the Supabase Auth API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sdk        gotrue.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a client bound to the project URL and API key.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	apiKey = strings.TrimSpace(apiKey)
	if baseURL == "" || apiKey == "" {
		return nil, ErrNotConfigured
	}
	baseURL = strings.TrimRight(baseURL, "/")
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		sdk:        gotrue.New("", apiKey).WithCustomAuthURL(baseURL + authPath),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// AuthorizeURL builds the provider sign-in URL. When codeChallenge is set
// the URL requests the PKCE flow with an S256 challenge. The SDK's
// Authorize takes neither a redirect target nor a caller-held verifier, so
// the URL is built here.
func (c *Client) AuthorizeURL(provider, redirectTo, codeChallenge string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	if codeChallenge != "" {
		q.Set("code_challenge", codeChallenge)
		q.Set("code_challenge_method", "s256")
	}
	return c.baseURL + authPath + "/authorize?" + q.Encode(), nil
}

// ExchangeCode trades a PKCE authorization code for a session.
func (c *Client) ExchangeCode(ctx context.Context, authCode, codeVerifier string) (*Session, error) {
	resp, err := c.api(ctx, "").Token(types.TokenRequest{
		GrantType:    "pkce",
		Code:         authCode,
		CodeVerifier: codeVerifier,
	})
	if err != nil {
		return nil, fromSDK("token", err)
	}
	return sessionFrom(&resp.Session), nil
}

// GetUser returns the user that owns the access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	resp, err := c.api(ctx, accessToken).GetUser()
	if err != nil {
		return nil, fromSDK("user", err)
	}
	u := userFrom(&resp.User)
	if u == nil {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "no user for token"}
	}
	return u, nil
}

// SignOut revokes the refresh tokens of the access token's user. A session
// the service no longer knows about counts as signed out.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	err := fromSDK("logout", c.api(ctx, accessToken).Logout())
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusNotFound) {
		return nil
	}
	return err
}

// RefreshSession exchanges a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	resp, err := c.api(ctx, "").RefreshToken(refreshToken)
	if err != nil {
		return nil, fromSDK("token", err)
	}
	return sessionFrom(&resp.Session), nil
}

// Health calls the auth service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.api(ctx, "").HealthCheck()
	return fromSDK("health", err)
}

// api returns an SDK client whose requests carry ctx and, when set, the
// user's bearer token. The SDK methods take no context, so it is bound
// through the transport.
func (c *Client) api(ctx context.Context, bearer string) gotrue.Client {
	hc := *c.httpClient
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = ctxTransport{ctx: ctx, base: base}

	api := c.sdk.WithClient(hc)
	if bearer != "" {
		api = api.WithToken(bearer)
	}
	return api
}

type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// The SDK reports non-2xx answers as "response status code <n>: <body>".
var sdkStatusRe = regexp.MustCompile(`(?s)status code (\d{3})(?::\s*(.*))?$`)

// fromSDK turns an SDK error into an *APIError when it carries an HTTP
// status, and wraps it otherwise.
func fromSDK(op string, err error) error {
	if err == nil {
		return nil
	}
	m := sdkStatusRe.FindStringSubmatch(err.Error())
	if m == nil {
		return fmt.Errorf("auth %s: %w", op, err)
	}
	status, _ := strconv.Atoi(m[1])
	return parseAPIError(status, []byte(m[2]))
}

func userFrom(u *types.User) *User {
	if u == nil || u.ID == uuid.Nil {
		return nil
	}
	out := &User{
		ID:               u.ID.String(),
		Email:            u.Email,
		UserMetadata:     u.UserMetadata,
		EmailConfirmedAt: u.EmailConfirmedAt,
		LastSignInAt:     u.LastSignInAt,
	}
	if !u.CreatedAt.IsZero() {
		created := u.CreatedAt
		out.CreatedAt = &created
	}
	return out
}

func sessionFrom(s *types.Session) *Session {
	return &Session{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
		RefreshToken: s.RefreshToken,
		User:         userFrom(&s.User),
	}
}
