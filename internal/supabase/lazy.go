package supabase

import (
	"context"
	"sync"

	"github.com/learnenglishzero/backend/internal/config"
)

// Lazy builds a Client on first use and hands out the same instance after
// that. Construction runs exactly once, so a failed build (missing
// credentials) keeps failing with the same error.
type Lazy struct {
	once   sync.Once
	build  func() (*Client, error)
	client *Client
	err    error
}

// NewLazy wraps a constructor.
func NewLazy(build func() (*Client, error)) *Lazy {
	return &Lazy{build: build}
}

// FromConfig returns a Lazy bound to the Supabase settings in cfg.
func FromConfig(cfg *config.Config) *Lazy {
	return NewLazy(func() (*Client, error) {
		return New(cfg.SupabaseURL, cfg.SupabaseKey, WithTimeout(cfg.HTTPTimeout))
	})
}

// Client returns the shared client.
func (l *Lazy) Client() (*Client, error) {
	l.once.Do(func() {
		l.client, l.err = l.build()
	})
	return l.client, l.err
}

func (l *Lazy) AuthorizeURL(provider, redirectTo, codeChallenge string) (string, error) {
	c, err := l.Client()
	if err != nil {
		return "", err
	}
	return c.AuthorizeURL(provider, redirectTo, codeChallenge)
}

func (l *Lazy) ExchangeCode(ctx context.Context, authCode, codeVerifier string) (*Session, error) {
	c, err := l.Client()
	if err != nil {
		return nil, err
	}
	return c.ExchangeCode(ctx, authCode, codeVerifier)
}

func (l *Lazy) GetUser(ctx context.Context, accessToken string) (*User, error) {
	c, err := l.Client()
	if err != nil {
		return nil, err
	}
	return c.GetUser(ctx, accessToken)
}

func (l *Lazy) SignOut(ctx context.Context, accessToken string) error {
	c, err := l.Client()
	if err != nil {
		return err
	}
	return c.SignOut(ctx, accessToken)
}

func (l *Lazy) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	c, err := l.Client()
	if err != nil {
		return nil, err
	}
	return c.RefreshSession(ctx, refreshToken)
}

func (l *Lazy) Health(ctx context.Context) error {
	c, err := l.Client()
	if err != nil {
		return err
	}
	return c.Health(ctx)
}
