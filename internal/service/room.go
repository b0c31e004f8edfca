package service

import (
	"context"

	"github.com/google/uuid"
	"mentorchat/internal/broadcast"
	"mentorchat/internal/domain"
	"mentorchat/internal/repository"
	apperrors "mentorchat/pkg/errors"
	"mentorchat/pkg/logger"
)

// RoomService drives the join/leave side of a room or group session: it
// updates scope presence and announces the movement on the scope's channel.
// Message flow never goes through here.
type RoomService interface {
	Join(ctx context.Context, scope domain.Scope, userID uuid.UUID) error
	Leave(ctx context.Context, scope domain.Scope, userID uuid.UUID) error
	Heartbeat(ctx context.Context, scope domain.Scope, userID uuid.UUID) error
	OnlineUsers(ctx context.Context, scope domain.Scope) ([]uuid.UUID, error)
}

type roomService struct {
	scopeRepo      repository.ScopeRepository
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	presence       PresenceService
	broadcaster    broadcast.Broadcaster
	log            logger.Logger
}

func NewRoomService(
	repos *repository.Repositories,
	presence PresenceService,
	broadcaster broadcast.Broadcaster,
	log logger.Logger,
) RoomService {
	return &roomService{
		scopeRepo:      repos.Scope,
		membershipRepo: repos.Membership,
		userRepo:       repos.User,
		presence:       presence,
		broadcaster:    broadcaster,
		log:            log,
	}
}

func (s *roomService) Join(ctx context.Context, scope domain.Scope, userID uuid.UUID) error {
	if err := s.scopeRepo.Exists(ctx, scope); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	membership, err := s.membershipRepo.GetMembership(ctx, scope, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return apperrors.ErrNotMember
	}

	if err := s.presence.MarkOnline(ctx, scope, userID); err != nil {
		return err
	}

	if err := s.broadcaster.PublishUserJoined(ctx, scope, user.ID, user.Name, user.ImageURL); err != nil {
		s.log.Error("Failed to broadcast user joined", "user_id", userID, "error", err)
	}

	return nil
}

// Leave is deliberately lenient: a leave for a user who never joined is a
// harmless no-op, so no membership check is made.
func (s *roomService) Leave(ctx context.Context, scope domain.Scope, userID uuid.UUID) error {
	if err := s.presence.MarkOffline(ctx, scope, userID); err != nil {
		return err
	}

	if err := s.broadcaster.PublishUserLeft(ctx, scope, userID); err != nil {
		s.log.Error("Failed to broadcast user left", "user_id", userID, "error", err)
	}

	return nil
}

// Heartbeat re-asserts scope presence and refreshes the set TTL.
func (s *roomService) Heartbeat(ctx context.Context, scope domain.Scope, userID uuid.UUID) error {
	return s.presence.MarkOnline(ctx, scope, userID)
}

// OnlineUsers reconciles the scope set against the global one before listing,
// so staleness is bounded at read time rather than by a background sweep.
func (s *roomService) OnlineUsers(ctx context.Context, scope domain.Scope) ([]uuid.UUID, error) {
	if err := s.scopeRepo.Exists(ctx, scope); err != nil {
		return nil, err
	}

	if err := s.presence.ReconcileScope(ctx, scope); err != nil {
		s.log.Warn("Presence reconciliation failed, listing unreconciled", "error", err)
	}

	return s.presence.ListOnline(ctx, scope)
}
