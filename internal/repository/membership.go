package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"mentorchat/internal/domain"
	"mentorchat/pkg/logger"
)

// MembershipRepository reads membership, moderator and mute facts owned by the
// surrounding platform. All methods are read-only capability checks.
type MembershipRepository interface {
	GetMembership(ctx context.Context, scope domain.Scope, userID uuid.UUID) (*domain.Membership, error)
	IsModerator(ctx context.Context, scope domain.Scope, userID uuid.UUID) (bool, error)
	GetActiveMute(ctx context.Context, scope domain.Scope, userID uuid.UUID, now time.Time) (*domain.Mute, error)
}

type membershipRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMembershipRepository(db *pgxpool.Pool, log logger.Logger) MembershipRepository {
	return &membershipRepository{db: db, log: log}
}

func memberTable(scope domain.Scope) string {
	if scope.Kind == domain.ScopeRoom {
		return "room_members"
	}
	return "group_members"
}

// GetMembership returns nil without an error when the user is not a member.
func (r *membershipRepository) GetMembership(ctx context.Context, scope domain.Scope, userID uuid.UUID) (*domain.Membership, error) {
	query := `
		SELECT user_id, role, joined_at
		FROM ` + memberTable(scope) + `
		WHERE ` + scopeColumn(scope) + ` = $1 AND user_id = $2
	`

	membership := &domain.Membership{Scope: scope}
	err := r.db.QueryRow(ctx, query, scope.ID, userID).Scan(
		&membership.UserID, &membership.Role, &membership.JoinedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("Failed to get membership", "error", err)
		return nil, err
	}

	return membership, nil
}

func (r *membershipRepository) IsModerator(ctx context.Context, scope domain.Scope, userID uuid.UUID) (bool, error) {
	membership, err := r.GetMembership(ctx, scope, userID)
	if err != nil {
		return false, err
	}
	if membership == nil {
		return false, nil
	}
	return membership.IsModerator(), nil
}

// GetActiveMute returns the mute currently in force for (scope, user), or nil.
// Expired mutes are filtered here, never deleted (lazy expiry).
func (r *membershipRepository) GetActiveMute(ctx context.Context, scope domain.Scope, userID uuid.UUID, now time.Time) (*domain.Mute, error) {
	query := `
		SELECT id, user_id, reason, expires_at, created_at
		FROM mutes
		WHERE ` + scopeColumn(scope) + ` = $1 AND user_id = $2 AND expires_at > $3
		ORDER BY expires_at DESC
		LIMIT 1
	`

	mute := &domain.Mute{Scope: scope}
	err := r.db.QueryRow(ctx, query, scope.ID, userID, now).Scan(
		&mute.ID, &mute.UserID, &mute.Reason, &mute.ExpiresAt, &mute.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("Failed to get active mute", "error", err)
		return nil, err
	}

	return mute, nil
}
