package service

import (
	"mentorchat/internal/broadcast"
	"mentorchat/internal/config"
	"mentorchat/internal/repository"
	"mentorchat/pkg/logger"
)

type Services struct {
	Chat      ChatService
	Presence  PresenceService
	Room      RoomService
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, broadcaster broadcast.Broadcaster, cfg *config.Config, log logger.Logger) *Services {
	presence := NewPresenceService(repos.Presence, cfg.Presence, log)

	return &Services{
		Chat:      NewChatService(repos, broadcaster, log),
		Presence:  presence,
		Room:      NewRoomService(repos, presence, broadcaster, log),
		RateLimit: NewRateLimitService(repos.RateLimit, log),
	}
}
