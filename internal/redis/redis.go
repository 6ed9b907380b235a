package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) *redis.Client {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
	return Rdb
}

func revisionKey(tenantID string) string {
	return fmt.Sprintf("tenant:%s:schedules:revision", tenantID)
}

// Revisions keeps a per-tenant counter that moves on every committed schedule change.
// Screens poll it to skip fetching an unchanged schedule. A nil client disables it.
type Revisions struct {
	rdb *redis.Client
}

func NewRevisions(rdb *redis.Client) *Revisions {
	return &Revisions{rdb: rdb}
}

func (r *Revisions) Bump(ctx context.Context, tenantID string) (int64, error) {
	if r == nil || r.rdb == nil {
		return 0, nil
	}
	rev, err := r.rdb.Incr(ctx, revisionKey(tenantID)).Result()
	if err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID).Msg("failed to bump schedule revision")
		return 0, err
	}
	return rev, nil
}

func (r *Revisions) Get(ctx context.Context, tenantID string) (int64, error) {
	if r == nil || r.rdb == nil {
		return 0, nil
	}
	rev, err := r.rdb.Get(ctx, revisionKey(tenantID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return rev, err
}
