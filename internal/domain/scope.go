package domain

import (
	"github.com/google/uuid"
)

// ScopeKind discriminates where a message, typing event or presence fact
// applies. Exactly one kind per scope; the two-nullable-ids shape only exists
// at the transport boundary.
type ScopeKind string

const (
	ScopeRoom  ScopeKind = "room"
	ScopeGroup ScopeKind = "group"
)

type Scope struct {
	Kind ScopeKind `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

func RoomScope(id uuid.UUID) Scope {
	return Scope{Kind: ScopeRoom, ID: id}
}

func GroupScope(id uuid.UUID) Scope {
	return Scope{Kind: ScopeGroup, ID: id}
}

// Channel returns the pub/sub channel name for the scope,
// e.g. "room:3f1c..." or "group:9ab0...".
func (s Scope) Channel() string {
	return string(s.Kind) + ":" + s.ID.String()
}

// PresenceKey returns the presence-set key for the scope,
// e.g. "room:3f1c...:online".
func (s Scope) PresenceKey() string {
	return s.Channel() + ":online"
}

// RoomID returns the room id when the scope is a room, nil otherwise.
// Used when serializing events that carry the two-field wire shape.
func (s Scope) RoomID() *uuid.UUID {
	if s.Kind == ScopeRoom {
		id := s.ID
		return &id
	}
	return nil
}

func (s Scope) GroupID() *uuid.UUID {
	if s.Kind == ScopeGroup {
		id := s.ID
		return &id
	}
	return nil
}

func (s Scope) IsZero() bool {
	return s.Kind == "" && s.ID == uuid.Nil
}
