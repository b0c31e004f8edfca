package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"mentorchat/internal/domain"
	apperrors "mentorchat/pkg/errors"
	"mentorchat/pkg/logger"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.ChatMessage) error
	GetByID(ctx context.Context, messageID int64) (*domain.ChatMessage, error)
	Update(ctx context.Context, message *domain.ChatMessage) error
	List(ctx context.Context, scope domain.Scope, cursor int64, limit int) ([]*domain.ChatMessage, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (room_id, group_id, author_id, content, is_edited, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		message.RoomID, message.GroupID, message.AuthorID,
		message.Content, message.IsEdited, message.IsDeleted, time.Now(),
	).Scan(&message.ID, &message.CreatedAt, &message.UpdatedAt)

	if err != nil {
		r.log.Error("Failed to create message", "error", err)
		return err
	}

	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, messageID int64) (*domain.ChatMessage, error) {
	query := `
		SELECT m.id, m.room_id, m.group_id, m.author_id, u.name, u.image_url,
		       m.content, m.is_edited, m.is_deleted, m.created_at, m.updated_at
		FROM chat_messages m
		JOIN users u ON u.id = m.author_id
		WHERE m.id = $1
	`

	message := &domain.ChatMessage{}
	err := r.db.QueryRow(ctx, query, messageID).Scan(
		&message.ID, &message.RoomID, &message.GroupID, &message.AuthorID,
		&message.AuthorName, &message.AuthorImage,
		&message.Content, &message.IsEdited, &message.IsDeleted,
		&message.CreatedAt, &message.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		r.log.Error("Failed to get message", "error", err)
		return nil, err
	}

	return message, nil
}

func (r *messageRepository) Update(ctx context.Context, message *domain.ChatMessage) error {
	query := `
		UPDATE chat_messages
		SET content = $2, is_edited = $3, is_deleted = $4, updated_at = $5
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		message.ID, message.Content, message.IsEdited, message.IsDeleted, time.Now(),
	).Scan(&message.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrMessageNotFound
		}
		r.log.Error("Failed to update message", "error", err)
		return err
	}

	return nil
}

// List returns non-deleted messages for the scope, newest first, paginated by
// a strictly-less-than id cursor. cursor == 0 means "from the latest".
func (r *messageRepository) List(ctx context.Context, scope domain.Scope, cursor int64, limit int) ([]*domain.ChatMessage, error) {
	query := `
		SELECT m.id, m.room_id, m.group_id, m.author_id, u.name, u.image_url,
		       m.content, m.is_edited, m.is_deleted, m.created_at, m.updated_at
		FROM chat_messages m
		JOIN users u ON u.id = m.author_id
		WHERE m.` + scopeColumn(scope) + ` = $1 AND m.is_deleted = FALSE
		  AND ($2 = 0 OR m.id < $2)
		ORDER BY m.id DESC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, scope.ID, cursor, limit)
	if err != nil {
		r.log.Error("Failed to list messages", "error", err)
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		message := &domain.ChatMessage{}
		err := rows.Scan(
			&message.ID, &message.RoomID, &message.GroupID, &message.AuthorID,
			&message.AuthorName, &message.AuthorImage,
			&message.Content, &message.IsEdited, &message.IsDeleted,
			&message.CreatedAt, &message.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

func scopeColumn(scope domain.Scope) string {
	if scope.Kind == domain.ScopeRoom {
		return "room_id"
	}
	return "group_id"
}
