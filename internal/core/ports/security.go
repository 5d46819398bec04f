package ports

import (
	"context"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
)

// PasswordHasher hashes passwords into a self-describing encoded form.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) bool
}

// AccessVerifier is what the HTTP layer needs to authenticate a request.
type AccessVerifier interface {
	VerifyAccess(token string) (userID string, err error)
}

// TokenEngine issues and verifies access/refresh tokens and revokes
// refresh tokens.
type TokenEngine interface {
	AccessVerifier
	IssuePair(userID string) (domain.TokenPair, error)
	VerifyRefresh(ctx context.Context, token string) (*domain.RefreshClaims, error)
	RefreshAccess(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, claims *domain.RefreshClaims) error
}
