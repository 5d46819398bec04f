package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
)

const auditCollection = "auth_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(auditCollection)}
}

// InsertEvent persists an authentication event to the auth_events collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, auditDocument(event, time.Now()))
	return err
}

// auditDocument omits empty identity and reason fields.
func auditDocument(event *domain.AuthEvent, recordedAt time.Time) bson.M {
	doc := bson.M{
		"type":        string(event.Type),
		"success":     event.Success,
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": recordedAt.UTC(),
	}
	if event.UserID != "" {
		doc["user_id"] = event.UserID
	}
	if event.Username != "" {
		doc["username"] = event.Username
	}
	if event.Reason != "" {
		doc["reason"] = event.Reason
	}
	return doc
}

// EnsureIndexes supports per-account lookups of the audit trail.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "username", Value: 1}, {Key: "occurred_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
