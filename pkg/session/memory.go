package session

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type turnLog struct {
	mu    sync.Mutex
	turns []Turn
}

// MemoryStore keeps turn logs in process memory with a TTL. Suitable for
// single-instance deployments and tests; the Redis store is the shared
// alternative.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ TurnStore = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	// Sessions idle for an hour are dropped; expired entries are purged
	// every ten minutes.
	return &MemoryStore{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (s *MemoryStore) log(sessionID string) *turnLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	if x, found := s.cache.Get(sessionID); found {
		return x.(*turnLog)
	}
	l := &turnLog{}
	s.cache.Set(sessionID, l, cache.DefaultExpiration)
	return l
}

func (s *MemoryStore) Append(ctx context.Context, sessionID string, turn Turn) error {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	l := s.log(sessionID)
	l.mu.Lock()
	l.turns = append(l.turns, turn)
	l.mu.Unlock()

	// Refresh the TTL on activity.
	s.cache.Set(sessionID, l, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) ReadRecent(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	l := s.log(sessionID)
	l.mu.Lock()
	defer l.mu.Unlock()

	start := 0
	if limit > 0 && len(l.turns) > limit {
		start = len(l.turns) - limit
	}
	out := make([]Turn, len(l.turns)-start)
	copy(out, l.turns[start:])
	return out, nil
}
