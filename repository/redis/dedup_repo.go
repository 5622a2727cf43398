package redis

import (
	"context"
	"time"

	goRedis "github.com/redis/go-redis/v9"

	"github.com/shoppulse/pipeline/repository"
)

const dedupKeyPrefix = "events:seen:"

type dedupRepository struct {
	client *goRedis.Client
	ttl    time.Duration
}

// NewDedupRepository returns a Redis-backed DedupRepository. Seen event IDs
// expire after ttl, which bounds the working set while still covering the
// transport's redelivery window.
func NewDedupRepository(client *goRedis.Client, ttl time.Duration) repository.DedupRepository {
	return &dedupRepository{client: client, ttl: ttl}
}

func (r *dedupRepository) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	return r.client.SetNX(ctx, dedupKeyPrefix+eventID, 1, r.ttl).Result()
}

func (r *dedupRepository) Forget(ctx context.Context, eventID string) error {
	return r.client.Del(ctx, dedupKeyPrefix+eventID).Err()
}
