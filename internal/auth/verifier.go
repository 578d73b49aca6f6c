package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	VerifierTTL = 10 * time.Minute
	FlowIDParam = "flow_id"
)

// VerifierStore keeps PKCE code verifiers between the login redirect and
// the callback, keyed by flow id.
type VerifierStore interface {
	Save(ctx context.Context, flowID, verifier string) error
	// Take returns and deletes the verifier, or "" if unknown or expired.
	Take(ctx context.Context, flowID string) (string, error)
}

// RedisVerifierStore wraps Redis for verifier storage.
type RedisVerifierStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedisVerifierStore(rdb redis.UniversalClient) *RedisVerifierStore {
	return &RedisVerifierStore{rdb: rdb, ttl: VerifierTTL}
}

func (s *RedisVerifierStore) Save(ctx context.Context, flowID, verifier string) error {
	return s.rdb.Set(ctx, "pkce:"+flowID, verifier, s.ttl).Err()
}

func (s *RedisVerifierStore) Take(ctx context.Context, flowID string) (string, error) {
	val, err := s.rdb.GetDel(ctx, "pkce:"+flowID).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// ErrTooManyFlows is returned when the in-memory store is full.
var ErrTooManyFlows = errors.New("too many pending login flows")

const (
	// DefaultMaxFlows bounds the in-memory store.
	DefaultMaxFlows = 10000
	sweepInterval   = time.Minute
)

// MemoryVerifierStore is the single-process fallback used when no Redis
// address is configured. Expired entries are swept at most once per
// sweepInterval, or when the store is full.
type MemoryVerifierStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	max       int
	now       func() time.Time
	nextSweep time.Time
	items     map[string]memoryEntry
}

type memoryEntry struct {
	verifier string
	expires  time.Time
}

func NewMemoryVerifierStore() *MemoryVerifierStore {
	return &MemoryVerifierStore{
		ttl:   VerifierTTL,
		max:   DefaultMaxFlows,
		now:   time.Now,
		items: make(map[string]memoryEntry),
	}
}

func (s *MemoryVerifierStore) Save(_ context.Context, flowID, verifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if now.After(s.nextSweep) || len(s.items) >= s.max {
		s.sweep(now)
	}
	if len(s.items) >= s.max {
		return ErrTooManyFlows
	}
	s.items[flowID] = memoryEntry{verifier: verifier, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryVerifierStore) sweep(now time.Time) {
	for k, e := range s.items {
		if now.After(e.expires) {
			delete(s.items, k)
		}
	}
	s.nextSweep = now.Add(sweepInterval)
}

func (s *MemoryVerifierStore) Take(_ context.Context, flowID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[flowID]
	if !ok {
		return "", nil
	}
	delete(s.items, flowID)
	if s.now().After(e.expires) {
		return "", nil
	}
	return e.verifier, nil
}
