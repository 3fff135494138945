package kvstore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-process Store for development and tests.
// The LRU evicts entries older than maxTTL in the background; shorter
// per-key TTLs are checked on read.
//
// The cache holds at most size entries (SESSION_CACHE_SIZE). Once full, each
// new Set evicts the least recently used key even if it has not expired, so
// the oldest idle sessions are silently logged out. Use the Redis store when
// sessions must survive until their TTL.
type MemoryStore struct {
	cache  *expirable.LRU[string, memoryEntry]
	maxTTL time.Duration
	now    func() time.Time
}

func NewMemoryStore(size int, maxTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		cache:  expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		maxTTL: maxTTL,
		now:    time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	e, ok := s.cache.Get(key)
	if !ok {
		return "", ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		s.cache.Remove(key)
		return "", ErrNotFound
	}
	return e.value, nil
}

// Set stores value; ttl is capped at the store's maxTTL.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 || ttl > s.maxTTL {
		ttl = s.maxTTL
	}
	s.cache.Add(key, memoryEntry{value: value, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryStore) Del(_ context.Context, key string) error {
	s.cache.Remove(key)
	return nil
}

func (s *MemoryStore) Alive(context.Context) bool {
	return true
}

func (s *MemoryStore) Close() error {
	s.cache.Purge()
	return nil
}
