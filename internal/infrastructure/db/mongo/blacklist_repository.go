package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
)

const blacklistCollection = "token_blacklist"

// BlacklistRepository implements ports.Blacklist using MongoDB. Entries are
// removed by a TTL index once the token would have expired anyway.
type BlacklistRepository struct {
	col *mongo.Collection
}

func NewBlacklistRepository(db *mongo.Database) *BlacklistRepository {
	col := db.Collection(blacklistCollection, options.Collection().SetWriteConcern(writeconcern.Majority()))
	return &BlacklistRepository{col: col}
}

// Add upserts the entry. A repeated revocation keeps the first document.
func (r *BlacklistRepository) Add(ctx context.Context, entry domain.BlacklistEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$setOnInsert": bson.M{
			"jti":        entry.TokenID,
			"user_id":    entry.UserID,
			"expires_at": entry.ExpiresAt.UTC(),
			"revoked_at": entry.RevokedAt.UTC(),
		},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"jti": entry.TokenID}, update, options.Update().SetUpsert(true))
	if err != nil {
		// Two concurrent upserts of the same jti: the other one won.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (r *BlacklistRepository) Contains(ctx context.Context, tokenID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"jti": tokenID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("lookup blacklist: %w", err)
	}
	return n > 0, nil
}

// EnsureIndexes creates the unique jti index and the expiry TTL index.
func (r *BlacklistRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "jti", Value: 1}},
			Options: options.Index().SetName("uniq_jti").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0),
		},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

