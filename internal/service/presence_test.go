package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"mentorchat/internal/config"
	"mentorchat/internal/domain"
)

type fakePresenceRepo struct {
	sets map[string]map[string]bool
	ttls map[string]time.Duration
}

func newFakePresenceRepo() *fakePresenceRepo {
	return &fakePresenceRepo{
		sets: make(map[string]map[string]bool),
		ttls: make(map[string]time.Duration),
	}
}

func (r *fakePresenceRepo) AddMember(_ context.Context, key, member string) error {
	if r.sets[key] == nil {
		r.sets[key] = make(map[string]bool)
	}
	r.sets[key][member] = true
	return nil
}

func (r *fakePresenceRepo) RemoveMember(_ context.Context, key string, members ...string) error {
	for _, m := range members {
		delete(r.sets[key], m)
	}
	return nil
}

func (r *fakePresenceRepo) Members(_ context.Context, key string) ([]string, error) {
	var out []string
	for m := range r.sets[key] {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakePresenceRepo) CountMembers(_ context.Context, key string) (int64, error) {
	return int64(len(r.sets[key])), nil
}

func (r *fakePresenceRepo) IsMember(_ context.Context, key, member string) (bool, error) {
	return r.sets[key][member], nil
}

func (r *fakePresenceRepo) SetExpiry(_ context.Context, key string, ttl time.Duration) error {
	r.ttls[key] = ttl
	return nil
}

func (r *fakePresenceRepo) Expiry(_ context.Context, key string) (time.Duration, error) {
	return r.ttls[key], nil
}

func newPresenceFixture() (*fakePresenceRepo, PresenceService) {
	repo := newFakePresenceRepo()
	svc := NewPresenceService(repo, config.PresenceConfig{ScopeTTL: time.Hour}, nopLogger{})
	return repo, svc
}

func TestPresenceMarkOnlineAndList(t *testing.T) {
	repo, svc := newPresenceFixture()
	scope := domain.RoomScope(uuid.New())
	alice, bob := uuid.New(), uuid.New()

	if err := svc.MarkOnline(context.Background(), scope, alice); err != nil {
		t.Fatalf("MarkOnline() error = %v", err)
	}
	if err := svc.MarkOnline(context.Background(), scope, bob); err != nil {
		t.Fatalf("MarkOnline() error = %v", err)
	}
	// Marking twice is idempotent.
	if err := svc.MarkOnline(context.Background(), scope, alice); err != nil {
		t.Fatalf("MarkOnline() error = %v", err)
	}

	online, err := svc.ListOnline(context.Background(), scope)
	if err != nil {
		t.Fatalf("ListOnline() error = %v", err)
	}
	if len(online) != 2 {
		t.Fatalf("got %d online users, want 2", len(online))
	}

	count, err := svc.CountOnline(context.Background(), scope)
	if err != nil || count != 2 {
		t.Fatalf("CountOnline() = %d, %v; want 2, nil", count, err)
	}

	if ttl := repo.ttls[scope.PresenceKey()]; ttl != time.Hour {
		t.Errorf("scope set TTL = %v, want %v", ttl, time.Hour)
	}

	if err := svc.MarkOffline(context.Background(), scope, alice); err != nil {
		t.Fatalf("MarkOffline() error = %v", err)
	}
	online, _ = svc.ListOnline(context.Background(), scope)
	if len(online) != 1 || online[0] != bob {
		t.Fatalf("after MarkOffline online = %v, want only %v", online, bob)
	}
}

func TestPresenceConnectDisconnect(t *testing.T) {
	_, svc := newPresenceFixture()
	user := uuid.New()

	online, err := svc.IsOnlineGlobally(context.Background(), user)
	if err != nil || online {
		t.Fatalf("IsOnlineGlobally() before connect = %v, %v; want false, nil", online, err)
	}

	if err := svc.Connect(context.Background(), user); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if online, _ = svc.IsOnlineGlobally(context.Background(), user); !online {
		t.Fatalf("user not globally online after Connect")
	}

	if err := svc.Disconnect(context.Background(), user); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if online, _ = svc.IsOnlineGlobally(context.Background(), user); online {
		t.Fatalf("user still globally online after Disconnect")
	}
}

func TestPresenceReconcileScope(t *testing.T) {
	_, svc := newPresenceFixture()
	scope := domain.RoomScope(uuid.New())
	connected, ghost := uuid.New(), uuid.New()

	if err := svc.Connect(context.Background(), connected); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	// Both appear in the scope set, but only one is globally connected; the
	// other simulates a crashed client that never sent a leave.
	if err := svc.MarkOnline(context.Background(), scope, connected); err != nil {
		t.Fatalf("MarkOnline() error = %v", err)
	}
	if err := svc.MarkOnline(context.Background(), scope, ghost); err != nil {
		t.Fatalf("MarkOnline() error = %v", err)
	}

	if err := svc.ReconcileScope(context.Background(), scope); err != nil {
		t.Fatalf("ReconcileScope() error = %v", err)
	}

	online, err := svc.ListOnline(context.Background(), scope)
	if err != nil {
		t.Fatalf("ListOnline() error = %v", err)
	}
	if len(online) != 1 || online[0] != connected {
		t.Fatalf("after reconcile online = %v, want only %v", online, connected)
	}

	// Reconciling an already-clean set changes nothing.
	if err := svc.ReconcileScope(context.Background(), scope); err != nil {
		t.Fatalf("second ReconcileScope() error = %v", err)
	}
	if online, _ = svc.ListOnline(context.Background(), scope); len(online) != 1 {
		t.Fatalf("reconcile is not idempotent: %v", online)
	}
}

func TestPresenceListSkipsMalformedMembers(t *testing.T) {
	repo, svc := newPresenceFixture()
	scope := domain.GroupScope(uuid.New())
	user := uuid.New()

	repo.AddMember(context.Background(), scope.PresenceKey(), "not-a-uuid")
	repo.AddMember(context.Background(), scope.PresenceKey(), user.String())

	online, err := svc.ListOnline(context.Background(), scope)
	if err != nil {
		t.Fatalf("ListOnline() error = %v", err)
	}
	if len(online) != 1 || online[0] != user {
		t.Fatalf("online = %v, want only %v", online, user)
	}
}

func TestPresenceSetScopeExpiry(t *testing.T) {
	repo, svc := newPresenceFixture()
	scope := domain.RoomScope(uuid.New())

	if err := svc.SetScopeExpiry(context.Background(), scope, 30*time.Second); err != nil {
		t.Fatalf("SetScopeExpiry() error = %v", err)
	}
	if ttl := repo.ttls[scope.PresenceKey()]; ttl != 30*time.Second {
		t.Fatalf("TTL = %v, want 30s", ttl)
	}
}
