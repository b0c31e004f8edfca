package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"mentorchat/internal/domain"
	apperrors "mentorchat/pkg/errors"
	"mentorchat/pkg/logger"
)

// ScopeRepository answers existence checks for the rooms and groups owned by
// the surrounding platform. The chat core never creates or mutates them.
type ScopeRepository interface {
	Exists(ctx context.Context, scope domain.Scope) error
}

type scopeRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewScopeRepository(db *pgxpool.Pool, log logger.Logger) ScopeRepository {
	return &scopeRepository{db: db, log: log}
}

func (r *scopeRepository) Exists(ctx context.Context, scope domain.Scope) error {
	table := "rooms"
	notFound := apperrors.ErrRoomNotFound
	if scope.Kind == domain.ScopeGroup {
		table = "groups"
		notFound = apperrors.ErrGroupNotFound
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE id = $1)`
	if err := r.db.QueryRow(ctx, query, scope.ID).Scan(&exists); err != nil {
		r.log.Error("Failed to check scope existence", "error", err)
		return err
	}
	if !exists {
		return notFound
	}
	return nil
}
