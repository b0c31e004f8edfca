package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"mentorchat/internal/domain"
	"mentorchat/pkg/logger"
)

// natsBroadcaster publishes event envelopes over NATS core (no persistence,
// at-most-once), using the same channel names as the redis backend.
type natsBroadcaster struct {
	conn *nats.Conn
	log  logger.Logger
}

func NewNATSBroadcaster(url string, log logger.Logger) (Broadcaster, error) {
	conn, err := nats.Connect(url,
		nats.Name("mentorchat-broadcast"),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &natsBroadcaster{conn: conn, log: log}, nil
}

func (b *natsBroadcaster) publish(_ context.Context, scope domain.Scope, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.conn.Publish(scope.Channel(), payload)
}

func (b *natsBroadcaster) PublishChatMessage(ctx context.Context, scope domain.Scope, message *domain.ChatMessage) error {
	return b.publish(ctx, scope, domain.NewChatMessageEvent(message))
}

func (b *natsBroadcaster) PublishMessageEdit(ctx context.Context, scope domain.Scope, messageID int64, newContent string) error {
	return b.publish(ctx, scope, domain.NewMessageEditEvent(messageID, newContent))
}

func (b *natsBroadcaster) PublishMessageDelete(ctx context.Context, scope domain.Scope, messageID int64) error {
	return b.publish(ctx, scope, domain.NewMessageDeleteEvent(messageID))
}

func (b *natsBroadcaster) PublishTypingIndicator(ctx context.Context, scope domain.Scope, userID uuid.UUID, userName string, isTyping bool) error {
	return b.publish(ctx, scope, domain.NewTypingIndicatorEvent(userID, userName, isTyping))
}

func (b *natsBroadcaster) PublishUserJoined(ctx context.Context, scope domain.Scope, userID uuid.UUID, userName string, userImage *string) error {
	return b.publish(ctx, scope, domain.NewUserJoinedEvent(userID, userName, userImage))
}

func (b *natsBroadcaster) PublishUserLeft(ctx context.Context, scope domain.Scope, userID uuid.UUID) error {
	return b.publish(ctx, scope, domain.NewUserLeftEvent(userID))
}

func (b *natsBroadcaster) Close() error {
	b.conn.Close()
	return nil
}
