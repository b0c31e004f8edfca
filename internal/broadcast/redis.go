package broadcast

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"mentorchat/internal/domain"
	"mentorchat/pkg/logger"
)

// redisBroadcaster publishes event envelopes over redis pub/sub. Channel
// naming follows the scope ("room:{id}" / "group:{id}"); subscribers are the
// delivery transports that hold the live connections.
type redisBroadcaster struct {
	redis *redis.Client
	log   logger.Logger
}

func NewRedisBroadcaster(redis *redis.Client, log logger.Logger) Broadcaster {
	return &redisBroadcaster{redis: redis, log: log}
}

func (b *redisBroadcaster) publish(ctx context.Context, scope domain.Scope, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.redis.Publish(ctx, scope.Channel(), payload).Err()
}

func (b *redisBroadcaster) PublishChatMessage(ctx context.Context, scope domain.Scope, message *domain.ChatMessage) error {
	return b.publish(ctx, scope, domain.NewChatMessageEvent(message))
}

func (b *redisBroadcaster) PublishMessageEdit(ctx context.Context, scope domain.Scope, messageID int64, newContent string) error {
	return b.publish(ctx, scope, domain.NewMessageEditEvent(messageID, newContent))
}

func (b *redisBroadcaster) PublishMessageDelete(ctx context.Context, scope domain.Scope, messageID int64) error {
	return b.publish(ctx, scope, domain.NewMessageDeleteEvent(messageID))
}

func (b *redisBroadcaster) PublishTypingIndicator(ctx context.Context, scope domain.Scope, userID uuid.UUID, userName string, isTyping bool) error {
	return b.publish(ctx, scope, domain.NewTypingIndicatorEvent(userID, userName, isTyping))
}

func (b *redisBroadcaster) PublishUserJoined(ctx context.Context, scope domain.Scope, userID uuid.UUID, userName string, userImage *string) error {
	return b.publish(ctx, scope, domain.NewUserJoinedEvent(userID, userName, userImage))
}

func (b *redisBroadcaster) PublishUserLeft(ctx context.Context, scope domain.Scope, userID uuid.UUID) error {
	return b.publish(ctx, scope, domain.NewUserLeftEvent(userID))
}

func (b *redisBroadcaster) Close() error {
	return nil
}
