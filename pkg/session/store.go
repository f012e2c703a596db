package session

import (
	"context"
	"sync"
	"time"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one immutable entry in a session's turn log.
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// TurnStore is the externally-owned, append-only, order-preserving
// per-session history. Both operations are linearizable per session id.
type TurnStore interface {
	Append(ctx context.Context, sessionID string, turn Turn) error
	ReadRecent(ctx context.Context, sessionID string, limit int) ([]Turn, error)
}

// KeyedMutex serializes writers per session id so the user/assistant turn
// pair of one request never interleaves with another request on the same
// session. Entries are never reclaimed; session cardinality is bounded by
// the store's own TTL policy.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the per-key lock and returns its unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
