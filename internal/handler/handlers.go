package handler

import (
	"mentorchat/internal/service"
	"mentorchat/pkg/logger"
)

type Handlers struct {
	Health   *HealthHandler
	Chat     *ChatHandler
	Room     *RoomHandler
	Presence *PresenceHandler
}

func NewHandlers(services *service.Services, log logger.Logger) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(),
		Chat:     NewChatHandler(services.Chat, log),
		Room:     NewRoomHandler(services.Room, log),
		Presence: NewPresenceHandler(services.Presence, log),
	}
}
