package session

import (
	"context"
	"sync"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/internal/cache"
)

const revokedKeyPrefix = "tailorshop:revoked:"

// RevocationStore remembers logged-out token ids until they expire
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryStore is a process-local RevocationStore
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{revoked: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
	if until.After(now) {
		s.revoked[jti] = until
	}
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.revoked[jti]
	return ok && exp.After(s.now()), nil
}

// RedisStore keeps revoked ids in Redis with a matching TTL, so every
// instance sharing the server sees a logout.
type RedisStore struct {
	client cache.RedisClient
	now    func() time.Time
}

// NewRedisStore wraps a connected Redis client
func NewRedisStore(client cache.RedisClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl)
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.client.Exists(ctx, revokedKeyPrefix+jti)
}
