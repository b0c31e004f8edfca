package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL *string   `json:"image_url,omitempty"`
}

// Membership is a read-only capability fact owned by the surrounding
// platform: whether a user belongs to a room or group, and with what role.
type Membership struct {
	Scope    Scope     `json:"scope"`
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

const (
	MemberRoleMember    = "member"
	MemberRoleModerator = "moderator"
	MemberRoleOwner     = "owner"
)

func (m *Membership) IsModerator() bool {
	return m.Role == MemberRoleModerator || m.Role == MemberRoleOwner
}

// Mute is a time-bounded restriction on sending into one scope. A mute whose
// ExpiresAt is in the past is inactive; expiry is lazy, nothing deletes the
// row at that moment.
type Mute struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Scope     Scope     `json:"scope"`
	Reason    *string   `json:"reason,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Mute) Active(now time.Time) bool {
	return m.ExpiresAt.After(now)
}
