package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"mentorchat/internal/config"
	"mentorchat/internal/domain"
	"mentorchat/internal/repository"
	apperrors "mentorchat/pkg/errors"
)

type roomFixture struct {
	presenceRepo *fakePresenceRepo
	broadcaster  *fakeBroadcaster
	presence     PresenceService
	room         RoomService

	scope  domain.Scope
	member uuid.UUID
}

func newRoomFixture(t *testing.T) *roomFixture {
	t.Helper()

	f := &roomFixture{
		presenceRepo: newFakePresenceRepo(),
		broadcaster:  &fakeBroadcaster{},
		scope:        domain.RoomScope(uuid.New()),
		member:       uuid.New(),
	}

	scopes := &fakeScopeRepo{existing: map[domain.Scope]bool{f.scope: true}}
	memberships := newFakeMembershipRepo()
	memberships.addMember(f.scope, f.member, domain.MemberRoleMember)
	users := &fakeUserRepo{users: map[uuid.UUID]*domain.User{
		f.member: {ID: f.member, Name: "Alice"},
	}}

	f.presence = NewPresenceService(f.presenceRepo, config.PresenceConfig{ScopeTTL: time.Hour}, nopLogger{})
	repos := &repository.Repositories{
		Scope:      scopes,
		Membership: memberships,
		User:       users,
	}
	f.room = NewRoomService(repos, f.presence, f.broadcaster, nopLogger{})
	return f
}

func TestRoomJoin(t *testing.T) {
	f := newRoomFixture(t)

	if err := f.room.Join(context.Background(), f.scope, f.member); err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	online, _ := f.presence.ListOnline(context.Background(), f.scope)
	if len(online) != 1 || online[0] != f.member {
		t.Fatalf("online after join = %v, want only %v", online, f.member)
	}

	if len(f.broadcaster.events) != 1 || f.broadcaster.events[0].event.Type != domain.EventUserJoined {
		t.Fatalf("expected one USER_JOINED event, got %v", f.broadcaster.eventTypes())
	}
}

func TestRoomJoinRejections(t *testing.T) {
	f := newRoomFixture(t)
	stranger := uuid.New()

	if err := f.room.Join(context.Background(), domain.RoomScope(uuid.New()), f.member); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("join of missing room error = %v, want %v", err, apperrors.ErrNotFound)
	}
	if err := f.room.Join(context.Background(), f.scope, stranger); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("join by unknown user error = %v, want %v", err, apperrors.ErrValidation)
	}

	online, _ := f.presence.ListOnline(context.Background(), f.scope)
	if len(online) != 0 {
		t.Fatalf("rejected joins must not touch presence, got %v", online)
	}
	if len(f.broadcaster.events) != 0 {
		t.Fatalf("rejected joins must not broadcast, got %v", f.broadcaster.eventTypes())
	}
}

func TestRoomJoinNonMember(t *testing.T) {
	f := newRoomFixture(t)
	outsider := uuid.New()

	// Known user, but not a member of the scope.
	repos := &repository.Repositories{
		Scope:      &fakeScopeRepo{existing: map[domain.Scope]bool{f.scope: true}},
		Membership: newFakeMembershipRepo(),
		User: &fakeUserRepo{users: map[uuid.UUID]*domain.User{
			outsider: {ID: outsider, Name: "Outsider"},
		}},
	}
	room := NewRoomService(repos, f.presence, f.broadcaster, nopLogger{})

	if err := room.Join(context.Background(), f.scope, outsider); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("join by non-member error = %v, want %v", err, apperrors.ErrForbidden)
	}
}

func TestRoomLeave(t *testing.T) {
	f := newRoomFixture(t)

	if err := f.room.Join(context.Background(), f.scope, f.member); err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if err := f.room.Leave(context.Background(), f.scope, f.member); err != nil {
		t.Fatalf("Leave() error = %v", err)
	}

	online, _ := f.presence.ListOnline(context.Background(), f.scope)
	if len(online) != 0 {
		t.Fatalf("online after leave = %v, want empty", online)
	}

	types := f.broadcaster.eventTypes()
	if len(types) != 2 || types[1] != domain.EventUserLeft {
		t.Fatalf("events = %v, want USER_JOINED then USER_LEFT", types)
	}

	// Leaving without having joined is a harmless no-op.
	if err := f.room.Leave(context.Background(), f.scope, uuid.New()); err != nil {
		t.Fatalf("Leave() for unjoined user error = %v", err)
	}
}

func TestRoomHeartbeatRefreshesTTL(t *testing.T) {
	f := newRoomFixture(t)

	if err := f.room.Join(context.Background(), f.scope, f.member); err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	key := f.scope.PresenceKey()
	f.presenceRepo.ttls[key] = time.Second

	if err := f.room.Heartbeat(context.Background(), f.scope, f.member); err != nil {
		t.Fatalf("Heartbeat() error = %v", err)
	}
	if ttl := f.presenceRepo.ttls[key]; ttl != time.Hour {
		t.Fatalf("TTL after heartbeat = %v, want %v", ttl, time.Hour)
	}
}

func TestRoomOnlineUsersReconciles(t *testing.T) {
	f := newRoomFixture(t)
	ghost := uuid.New()

	if err := f.presence.Connect(context.Background(), f.member); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := f.room.Join(context.Background(), f.scope, f.member); err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	// Stale scope entry with no matching global connection.
	f.presenceRepo.AddMember(context.Background(), f.scope.PresenceKey(), ghost.String())

	online, err := f.room.OnlineUsers(context.Background(), f.scope)
	if err != nil {
		t.Fatalf("OnlineUsers() error = %v", err)
	}
	if len(online) != 1 || online[0] != f.member {
		t.Fatalf("online = %v, want only %v", online, f.member)
	}

	if _, err := f.room.OnlineUsers(context.Background(), domain.GroupScope(uuid.New())); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("OnlineUsers on missing group error = %v, want %v", err, apperrors.ErrNotFound)
	}
}
