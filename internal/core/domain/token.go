package domain

import "time"

// TokenType distinguishes access from refresh tokens inside the JWT claims.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPair is issued at login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshClaims is the verified content of a refresh token.
type RefreshClaims struct {
	TokenID   string
	UserID    string
	ExpiresAt time.Time
}

// BlacklistEntry records a revoked refresh token identifier. Entries are
// never removed while the token could still pass expiry checks.
type BlacklistEntry struct {
	TokenID   string
	UserID    string
	ExpiresAt time.Time
	RevokedAt time.Time
}
