package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
	"github.com/minitwitter/accounts-auth/internal/core/ports"
	"github.com/minitwitter/accounts-auth/internal/pkg/metrics"
)

const (
	defaultAccessTTL  = 5 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
)

// TokenConfig configures the TokenEngine.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// tokenClaims is the JWT payload of both token types.
type tokenClaims struct {
	TokenType domain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenEngine issues HS256 access/refresh tokens. Access tokens are
// stateless; refresh tokens can be revoked through the blacklist.
type TokenEngine struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  ports.Blacklist
	now        func() time.Time
}

// NewTokenEngine returns a TokenEngine. Zero TTLs fall back to 5 minutes
// (access) and 24 hours (refresh).
func NewTokenEngine(cfg TokenConfig, blacklist ports.Blacklist) *TokenEngine {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &TokenEngine{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		blacklist:  blacklist,
		now:        time.Now,
	}
}

// IssuePair mints a fresh access and refresh token for userID.
func (e *TokenEngine) IssuePair(userID string) (domain.TokenPair, error) {
	now := e.now()

	access, err := e.sign(userID, domain.TokenTypeAccess, now, e.accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := e.sign(userID, domain.TokenTypeRefresh, now, e.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// VerifyAccess checks signature, expiry and type of an access token and
// returns the user id it is bound to.
func (e *TokenEngine) VerifyAccess(token string) (string, error) {
	claims, err := e.parse(token, domain.TokenTypeAccess)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// VerifyRefresh checks signature, expiry and type before consulting the
// blacklist, so a bad token never costs a store lookup.
func (e *TokenEngine) VerifyRefresh(ctx context.Context, token string) (*domain.RefreshClaims, error) {
	claims, err := e.parse(token, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := e.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil, domain.ErrTokenBlacklisted
	}

	return &domain.RefreshClaims{
		TokenID:   claims.ID,
		UserID:    claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// RefreshAccess mints a new access token from a valid, non-revoked refresh
// token. The refresh token itself is left as is.
func (e *TokenEngine) RefreshAccess(ctx context.Context, token string) (string, error) {
	claims, err := e.VerifyRefresh(ctx, token)
	if err != nil {
		return "", err
	}
	return e.sign(claims.UserID, domain.TokenTypeAccess, e.now(), e.accessTTL)
}

// Revoke blacklists the refresh token identified by claims. It is terminal
// and may be applied more than once.
func (e *TokenEngine) Revoke(ctx context.Context, claims *domain.RefreshClaims) error {
	return e.blacklist.Add(ctx, domain.BlacklistEntry{
		TokenID:   claims.TokenID,
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt,
		RevokedAt: e.now().UTC(),
	})
}

func (e *TokenEngine) sign(userID string, typ domain.TokenType, now time.Time, ttl time.Duration) (string, error) {
	claims := tokenClaims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(typ)).Inc()
	return signed, nil
}

func (e *TokenEngine) parse(token string, want domain.TokenType) (*tokenClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return e.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(e.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
	if claims.TokenType != want || claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
