package broadcast

import (
	"context"

	"github.com/google/uuid"
	"mentorchat/internal/domain"
)

// Broadcaster publishes typed events to the scope's channel for an external
// delivery transport to fan out. Publishing is best-effort, at-most-once from
// this process: callers that have already committed a store mutation must log
// a returned error and move on, never surface it.
type Broadcaster interface {
	PublishChatMessage(ctx context.Context, scope domain.Scope, message *domain.ChatMessage) error
	PublishMessageEdit(ctx context.Context, scope domain.Scope, messageID int64, newContent string) error
	PublishMessageDelete(ctx context.Context, scope domain.Scope, messageID int64) error
	PublishTypingIndicator(ctx context.Context, scope domain.Scope, userID uuid.UUID, userName string, isTyping bool) error
	PublishUserJoined(ctx context.Context, scope domain.Scope, userID uuid.UUID, userName string, userImage *string) error
	PublishUserLeft(ctx context.Context, scope domain.Scope, userID uuid.UUID) error
	Close() error
}
