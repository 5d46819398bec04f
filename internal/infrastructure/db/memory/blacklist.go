package memory

import (
	"context"
	"sync"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
)

// Blacklist keeps revoked refresh tokens for the lifetime of the process.
type Blacklist struct {
	mu      sync.RWMutex
	entries map[string]domain.BlacklistEntry
}

// NewBlacklist returns an empty Blacklist.
func NewBlacklist() *Blacklist {
	return &Blacklist{entries: make(map[string]domain.BlacklistEntry)}
}

// Add keeps the first entry recorded for a token id.
func (b *Blacklist) Add(_ context.Context, entry domain.BlacklistEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.entries[entry.TokenID]; !ok {
		b.entries[entry.TokenID] = entry
	}
	return nil
}

func (b *Blacklist) Contains(_ context.Context, tokenID string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.entries[tokenID]
	return ok, nil
}

// Entry returns the stored entry for tokenID.
func (b *Blacklist) Entry(tokenID string) (domain.BlacklistEntry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entries[tokenID]
	return e, ok
}
