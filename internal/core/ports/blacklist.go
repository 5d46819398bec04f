package ports

import (
	"context"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
)

// Blacklist is the persisted set of revoked refresh token identifiers.
type Blacklist interface {
	// Add records the entry durably before returning. Adding an identifier
	// that is already present is not an error.
	Add(ctx context.Context, entry domain.BlacklistEntry) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}
