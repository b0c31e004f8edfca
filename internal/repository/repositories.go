package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"mentorchat/pkg/logger"
)

type Repositories struct {
	Message       MessageRepository
	Scope         ScopeRepository
	Membership    MembershipRepository
	User          UserRepository
	ModerationLog ModerationLogRepository
	Presence      PresenceRepository
	RateLimit     RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		Message:       NewMessageRepository(db, log),
		Scope:         NewScopeRepository(db, log),
		Membership:    NewMembershipRepository(db, log),
		User:          NewUserRepository(db, log),
		ModerationLog: NewModerationLogRepository(db, log),
		Presence:      NewPresenceRepository(redis, log),
		RateLimit:     NewRateLimitRepository(redis, log),
	}
}
