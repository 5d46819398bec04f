package main

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/minitwitter/accounts-auth/internal/api/handler"
	"github.com/minitwitter/accounts-auth/internal/core/ports"
	"github.com/minitwitter/accounts-auth/internal/infrastructure/db/memory"
	"github.com/minitwitter/accounts-auth/internal/infrastructure/db/mongo"
	"github.com/minitwitter/accounts-auth/internal/infrastructure/db/redis"
	"github.com/minitwitter/accounts-auth/internal/pkg/config"
)

// storage bundles the store implementations selected by STORAGE.
type storage struct {
	Users     ports.UserRepository
	Blacklist ports.Blacklist
	Audit     ports.AuditRepository
	Readiness map[string]handler.Check

	closers []func(context.Context) error
}

// Close releases every connection opened by openStorage.
func (s *storage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i](ctx)
	}
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return &storage{
			Users:     memory.NewUserRepository(),
			Blacklist: memory.NewBlacklist(),
			Audit:     memory.NewAuditRepository(),
		}, nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	s := &storage{
		closers:   []func(context.Context) error{client.Disconnect},
		Readiness: map[string]handler.Check{"mongodb": mongoCheck(client)},
	}

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		s.Close()
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	s.Users = mongo.NewUserRepository(db)
	s.Audit = mongo.NewAuditRepository(db)
	s.Blacklist = mongo.NewBlacklistRepository(db)

	if cfg.Redis.BlacklistCache {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
		s.Readiness["redis"] = redisCheck(rdb)
		s.Blacklist = redis.NewBlacklistCache(rdb, s.Blacklist, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("blacklist cache enabled")
	}

	return s, nil
}

func mongoCheck(client *mongodriver.Client) handler.Check {
	return func(ctx context.Context) error { return mongo.Ping(ctx, client) }
}

func redisCheck(rdb *goredis.Client) handler.Check {
	return func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}
