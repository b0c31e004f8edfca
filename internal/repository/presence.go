package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"mentorchat/pkg/logger"
)

// PresenceRepository is the narrow "scoped set" capability the presence
// tracker needs: atomic per-key set operations plus whole-key expiry. Any
// concurrent-safe keyed-set store can satisfy it; the production
// implementation is redis.
type PresenceRepository interface {
	AddMember(ctx context.Context, key, member string) error
	RemoveMember(ctx context.Context, key string, members ...string) error
	Members(ctx context.Context, key string) ([]string, error)
	CountMembers(ctx context.Context, key string) (int64, error)
	IsMember(ctx context.Context, key, member string) (bool, error)
	SetExpiry(ctx context.Context, key string, ttl time.Duration) error
	Expiry(ctx context.Context, key string) (time.Duration, error)
}

type presenceRepository struct {
	redis *redis.Client
	log   logger.Logger
}

func NewPresenceRepository(redis *redis.Client, log logger.Logger) PresenceRepository {
	return &presenceRepository{redis: redis, log: log}
}

func (r *presenceRepository) AddMember(ctx context.Context, key, member string) error {
	if err := r.redis.SAdd(ctx, key, member).Err(); err != nil {
		r.log.Error("Failed to add presence member", "key", key, "error", err)
		return err
	}
	return nil
}

func (r *presenceRepository) RemoveMember(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := r.redis.SRem(ctx, key, args...).Err(); err != nil {
		r.log.Error("Failed to remove presence member", "key", key, "error", err)
		return err
	}
	return nil
}

func (r *presenceRepository) Members(ctx context.Context, key string) ([]string, error) {
	members, err := r.redis.SMembers(ctx, key).Result()
	if err != nil {
		r.log.Error("Failed to list presence members", "key", key, "error", err)
		return nil, err
	}
	return members, nil
}

func (r *presenceRepository) CountMembers(ctx context.Context, key string) (int64, error) {
	count, err := r.redis.SCard(ctx, key).Result()
	if err != nil {
		r.log.Error("Failed to count presence members", "key", key, "error", err)
		return 0, err
	}
	return count, nil
}

func (r *presenceRepository) IsMember(ctx context.Context, key, member string) (bool, error) {
	ok, err := r.redis.SIsMember(ctx, key, member).Result()
	if err != nil {
		r.log.Error("Failed to check presence membership", "key", key, "error", err)
		return false, err
	}
	return ok, nil
}

func (r *presenceRepository) SetExpiry(ctx context.Context, key string, ttl time.Duration) error {
	if err := r.redis.Expire(ctx, key, ttl).Err(); err != nil {
		r.log.Error("Failed to set presence expiry", "key", key, "error", err)
		return err
	}
	return nil
}

func (r *presenceRepository) Expiry(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.redis.TTL(ctx, key).Result()
	if err != nil {
		r.log.Error("Failed to get presence expiry", "key", key, "error", err)
		return 0, err
	}
	return ttl, nil
}
