package auth

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisVerifierStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisVerifierStore(rdb), mr
}

func TestRedisVerifierStore_SaveTake(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "flow", "verifier"))

	got, err := mr.Get("pkce:flow")
	require.NoError(t, err)
	assert.Equal(t, "verifier", got)
	assert.Equal(t, VerifierTTL, mr.TTL("pkce:flow"))

	v, err := s.Take(ctx, "flow")
	require.NoError(t, err)
	assert.Equal(t, "verifier", v)
	assert.False(t, mr.Exists("pkce:flow"))

	v, err = s.Take(ctx, "flow")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestRedisVerifierStore_Expiry(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "flow", "verifier"))
	mr.FastForward(VerifierTTL + 1)

	v, err := s.Take(ctx, "flow")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestRedisVerifierStore_Unavailable(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	assert.Error(t, s.Save(context.Background(), "flow", "v"))
	_, err := s.Take(context.Background(), "flow")
	assert.Error(t, err)
}
