package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
	"github.com/minitwitter/accounts-auth/internal/core/ports"
	"github.com/minitwitter/accounts-auth/internal/pkg/metrics"
)

// BlacklistCache is a read-through Redis cache in front of the durable
// blacklist store. Key format: blacklist:<jti>, expiring with the token.
//
// The store stays authoritative: writes go to it first, and a cache failure
// on read falls back to it.
type BlacklistCache struct {
	client *redis.Client
	store  ports.Blacklist
	log    zerolog.Logger
	now    func() time.Time
}

// NewBlacklistCache wraps store with a cache backed by client.
func NewBlacklistCache(client *redis.Client, store ports.Blacklist, log zerolog.Logger) *BlacklistCache {
	return &BlacklistCache{client: client, store: store, log: log, now: time.Now}
}

// Add records the entry in the store, then caches it until the token expires.
func (c *BlacklistCache) Add(ctx context.Context, entry domain.BlacklistEntry) error {
	if err := c.store.Add(ctx, entry); err != nil {
		return err
	}
	c.cache(ctx, entry.TokenID, entryTTL(entry.ExpiresAt, c.now()))
	return nil
}

// Contains answers from the cache when it can and from the store otherwise.
// A positive store answer is written back to the cache.
func (c *BlacklistCache) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, key(tokenID)).Result()
	switch {
	case err != nil:
		metrics.BlacklistLookupsTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Str("jti", tokenID).Msg("blacklist cache lookup failed, using store")
	case n > 0:
		metrics.BlacklistLookupsTotal.WithLabelValues("hit").Inc()
		return true, nil
	default:
		metrics.BlacklistLookupsTotal.WithLabelValues("miss").Inc()
	}

	revoked, err := c.store.Contains(ctx, tokenID)
	if err != nil {
		return false, err
	}
	if revoked {
		// The store does not return the expiry.
		c.cache(ctx, tokenID, backfillTTL)
	}
	return revoked, nil
}

// backfillTTL bounds entries written back from the store.
const backfillTTL = time.Hour

func (c *BlacklistCache) cache(ctx context.Context, tokenID string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, key(tokenID), "1", ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("jti", tokenID).Msg("failed to cache blacklist entry")
	}
}

func key(tokenID string) string {
	return fmt.Sprintf("blacklist:%s", tokenID)
}

// entryTTL is how long a revoked token needs to stay cached. Zero means the
// token has already expired and caching it is pointless.
func entryTTL(expiresAt, now time.Time) time.Duration {
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return 0
	}
	return ttl
}
