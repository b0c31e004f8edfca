package service

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"mentorchat/internal/broadcast"
	"mentorchat/internal/domain"
	"mentorchat/internal/repository"
	apperrors "mentorchat/pkg/errors"
	"mentorchat/pkg/logger"
)

type ChatService interface {
	SendMessage(ctx context.Context, scope domain.Scope, authorID uuid.UUID, content string) (*domain.ChatMessage, error)
	EditMessage(ctx context.Context, messageID int64, userID uuid.UUID, newContent string) (*domain.ChatMessage, error)
	DeleteMessage(ctx context.Context, messageID int64, userID uuid.UUID) error
	GetMessages(ctx context.Context, scope domain.Scope, cursor int64, limit int) ([]*domain.ChatMessage, error)
	BroadcastTyping(ctx context.Context, scope domain.Scope, userID uuid.UUID, userName string, isTyping bool)
}

type chatService struct {
	messageRepo    repository.MessageRepository
	scopeRepo      repository.ScopeRepository
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	moderationRepo repository.ModerationLogRepository
	broadcaster    broadcast.Broadcaster
	log            logger.Logger
}

func NewChatService(
	repos *repository.Repositories,
	broadcaster broadcast.Broadcaster,
	log logger.Logger,
) ChatService {
	return &chatService{
		messageRepo:    repos.Message,
		scopeRepo:      repos.Scope,
		membershipRepo: repos.Membership,
		userRepo:       repos.User,
		moderationRepo: repos.ModerationLog,
		broadcaster:    broadcaster,
		log:            log,
	}
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > domain.MaxMessageLength {
		return "", apperrors.ErrContentTooLong
	}
	return content, nil
}

// SendMessage checks every precondition before touching the store, persists
// the message, then broadcasts it. The broadcast is a best-effort side
// channel: once the row is written the caller always gets the message back,
// delivery failures are only logged. Clients recover missed deliveries by
// re-polling GetMessages.
func (s *chatService) SendMessage(ctx context.Context, scope domain.Scope, authorID uuid.UUID, content string) (*domain.ChatMessage, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if err := s.scopeRepo.Exists(ctx, scope); err != nil {
		return nil, err
	}

	membership, err := s.membershipRepo.GetMembership(ctx, scope, authorID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, apperrors.ErrNotMember
	}

	mute, err := s.membershipRepo.GetActiveMute(ctx, scope, authorID, time.Now())
	if err != nil {
		return nil, err
	}
	if mute != nil {
		return nil, apperrors.ErrUserMuted
	}

	message := &domain.ChatMessage{
		RoomID:      scope.RoomID(),
		GroupID:     scope.GroupID(),
		AuthorID:    authorID,
		AuthorName:  author.Name,
		AuthorImage: author.ImageURL,
		Content:     content,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if err := s.broadcaster.PublishChatMessage(ctx, scope, message); err != nil {
		s.log.Error("Failed to broadcast chat message", "message_id", message.ID, "error", err)
	}

	return message, nil
}

func (s *chatService) EditMessage(ctx context.Context, messageID int64, userID uuid.UUID, newContent string) (*domain.ChatMessage, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	newContent, err = validateContent(newContent)
	if err != nil {
		return nil, err
	}

	// Moderators may delete other people's messages but never edit them.
	if message.AuthorID != userID {
		return nil, apperrors.ErrNotAuthor
	}

	if message.IsDeleted {
		return nil, apperrors.ErrMessageDeleted
	}

	message.Content = newContent
	message.IsEdited = true
	if err := s.messageRepo.Update(ctx, message); err != nil {
		return nil, err
	}

	if err := s.broadcaster.PublishMessageEdit(ctx, message.Scope(), message.ID, message.Content); err != nil {
		s.log.Error("Failed to broadcast message edit", "message_id", message.ID, "error", err)
	}

	return message, nil
}

// DeleteMessage soft-deletes: the row stays, content is replaced with the
// fixed marker. Deleting an already-deleted message is a successful no-op.
func (s *chatService) DeleteMessage(ctx context.Context, messageID int64, userID uuid.UUID) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	scope := message.Scope()
	byModerator := false
	if message.AuthorID != userID {
		isModerator, err := s.membershipRepo.IsModerator(ctx, scope, userID)
		if err != nil {
			return err
		}
		if !isModerator {
			return apperrors.ErrCannotDelete
		}
		byModerator = true
	}

	if message.IsDeleted {
		return nil
	}

	message.IsDeleted = true
	message.Content = domain.DeletedMessageContent
	if err := s.messageRepo.Update(ctx, message); err != nil {
		return err
	}

	if byModerator {
		entry := &domain.ModerationLogEntry{
			ModeratorID: userID,
			TargetID:    strconv.FormatInt(message.ID, 10),
			ActionType:  domain.ModerationActionMessageDeleted,
			Metadata: map[string]interface{}{
				"scope":      scope.Channel(),
				"message_id": message.ID,
				"author_id":  message.AuthorID.String(),
			},
			CreatedAt: time.Now(),
		}
		if err := s.moderationRepo.CreateEntry(ctx, entry); err != nil {
			// The delete is already committed; audit failure must not undo it.
			s.log.Error("Failed to record moderation log entry", "message_id", message.ID, "error", err)
		}
	}

	if err := s.broadcaster.PublishMessageDelete(ctx, scope, message.ID); err != nil {
		s.log.Error("Failed to broadcast message delete", "message_id", message.ID, "error", err)
	}

	return nil
}

func (s *chatService) GetMessages(ctx context.Context, scope domain.Scope, cursor int64, limit int) ([]*domain.ChatMessage, error) {
	if err := s.scopeRepo.Exists(ctx, scope); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	return s.messageRepo.List(ctx, scope, cursor, limit)
}

// BroadcastTyping is fire-and-forget: typing indicators are never persisted
// and a missed one costs nothing, so failures are logged only.
func (s *chatService) BroadcastTyping(ctx context.Context, scope domain.Scope, userID uuid.UUID, userName string, isTyping bool) {
	if err := s.broadcaster.PublishTypingIndicator(ctx, scope, userID, userName, isTyping); err != nil {
		s.log.Error("Failed to broadcast typing indicator", "user_id", userID, "error", err)
	}
}
