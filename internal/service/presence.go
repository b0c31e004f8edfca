package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"mentorchat/internal/config"
	"mentorchat/internal/domain"
	"mentorchat/internal/repository"
	"mentorchat/pkg/logger"
)

// GlobalPresenceKey holds every user currently connected anywhere. It is the
// authoritative set scope-level presence reconciles against.
const GlobalPresenceKey = "users:online"

// PresenceService maintains approximate online-user sets per scope plus the
// global set. Scope sets are best-effort caches: a crashed client can leave a
// stale entry behind until ReconcileScope or the scope TTL clears it.
type PresenceService interface {
	MarkOnline(ctx context.Context, scope domain.Scope, userID uuid.UUID) error
	MarkOffline(ctx context.Context, scope domain.Scope, userID uuid.UUID) error
	ListOnline(ctx context.Context, scope domain.Scope) ([]uuid.UUID, error)
	CountOnline(ctx context.Context, scope domain.Scope) (int64, error)
	IsOnlineGlobally(ctx context.Context, userID uuid.UUID) (bool, error)
	Connect(ctx context.Context, userID uuid.UUID) error
	Disconnect(ctx context.Context, userID uuid.UUID) error
	ReconcileScope(ctx context.Context, scope domain.Scope) error
	SetScopeExpiry(ctx context.Context, scope domain.Scope, ttl time.Duration) error
}

type presenceService struct {
	presenceRepo repository.PresenceRepository
	cfg          config.PresenceConfig
	log          logger.Logger
}

func NewPresenceService(presenceRepo repository.PresenceRepository, cfg config.PresenceConfig, log logger.Logger) PresenceService {
	return &presenceService{
		presenceRepo: presenceRepo,
		cfg:          cfg,
		log:          log,
	}
}

// MarkOnline adds the user to the scope's presence set and refreshes the
// set-wide TTL so an abandoned scope self-clears. The global set is
// maintained separately via Connect/Disconnect.
func (s *presenceService) MarkOnline(ctx context.Context, scope domain.Scope, userID uuid.UUID) error {
	key := scope.PresenceKey()
	if err := s.presenceRepo.AddMember(ctx, key, userID.String()); err != nil {
		return err
	}
	if s.cfg.ScopeTTL > 0 {
		if err := s.presenceRepo.SetExpiry(ctx, key, s.cfg.ScopeTTL); err != nil {
			s.log.Warn("Failed to refresh presence set TTL", "key", key, "error", err)
		}
	}
	return nil
}

func (s *presenceService) MarkOffline(ctx context.Context, scope domain.Scope, userID uuid.UUID) error {
	return s.presenceRepo.RemoveMember(ctx, scope.PresenceKey(), userID.String())
}

func (s *presenceService) ListOnline(ctx context.Context, scope domain.Scope) ([]uuid.UUID, error) {
	members, err := s.presenceRepo.Members(ctx, scope.PresenceKey())
	if err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			s.log.Warn("Skipping malformed presence member", "member", member)
			continue
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, nil
}

func (s *presenceService) CountOnline(ctx context.Context, scope domain.Scope) (int64, error) {
	return s.presenceRepo.CountMembers(ctx, scope.PresenceKey())
}

func (s *presenceService) IsOnlineGlobally(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.presenceRepo.IsMember(ctx, GlobalPresenceKey, userID.String())
}

func (s *presenceService) Connect(ctx context.Context, userID uuid.UUID) error {
	return s.presenceRepo.AddMember(ctx, GlobalPresenceKey, userID.String())
}

func (s *presenceService) Disconnect(ctx context.Context, userID uuid.UUID) error {
	return s.presenceRepo.RemoveMember(ctx, GlobalPresenceKey, userID.String())
}

// ReconcileScope removes every scope member that is absent from the global
// online set, covering connections that dropped without a clean leave. Each
// step is an atomic set operation, so concurrent invocations are safe and the
// pass is idempotent.
func (s *presenceService) ReconcileScope(ctx context.Context, scope domain.Scope) error {
	key := scope.PresenceKey()
	members, err := s.presenceRepo.Members(ctx, key)
	if err != nil {
		return err
	}

	var stale []string
	for _, member := range members {
		online, err := s.presenceRepo.IsMember(ctx, GlobalPresenceKey, member)
		if err != nil {
			return err
		}
		if !online {
			stale = append(stale, member)
		}
	}

	if len(stale) == 0 {
		return nil
	}

	if err := s.presenceRepo.RemoveMember(ctx, key, stale...); err != nil {
		return err
	}
	s.log.Debug("Reconciled stale presence entries", "key", key, "removed", len(stale))
	return nil
}

func (s *presenceService) SetScopeExpiry(ctx context.Context, scope domain.Scope, ttl time.Duration) error {
	return s.presenceRepo.SetExpiry(ctx, scope.PresenceKey(), ttl)
}
