package refreshtokens

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	userID    int64
	expiresAt time.Time
}

// MemoryRepository is an in-memory registry for single-instance deployments
// and tests. A restart invalidates every outstanding refresh token.
type MemoryRepository struct {
	tokens map[string]memoryEntry
	mu     sync.RWMutex
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tokens: make(map[string]memoryEntry),
	}
}

func (r *MemoryRepository) Register(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[HashToken(token)] = memoryEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *MemoryRepository) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, HashToken(token))
	return nil
}

func (r *MemoryRepository) IsOutstanding(ctx context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.tokens[HashToken(token)]
	if !ok {
		return false, nil
	}
	if entry.expiresAt.Before(time.Now()) {
		return false, nil
	}

	return true, nil
}

func (r *MemoryRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, entry := range r.tokens {
		if entry.userID == userID {
			delete(r.tokens, hash)
		}
	}
	return nil
}
