package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"mentorchat/internal/domain"
	"mentorchat/pkg/logger"
)

type ModerationLogRepository interface {
	CreateEntry(ctx context.Context, entry *domain.ModerationLogEntry) error
}

type moderationLogRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewModerationLogRepository(db *pgxpool.Pool, log logger.Logger) ModerationLogRepository {
	return &moderationLogRepository{db: db, log: log}
}

func (r *moderationLogRepository) CreateEntry(ctx context.Context, entry *domain.ModerationLogEntry) error {
	query := `
		INSERT INTO moderation_log (moderator_id, target_id, action_type, reason, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		entry.ModeratorID, entry.TargetID, entry.ActionType,
		entry.Reason, entry.Metadata, entry.CreatedAt,
	).Scan(&entry.ID)

	if err != nil {
		r.log.Error("Failed to create moderation log entry", "error", err)
		return err
	}

	return nil
}
