package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength is the upper bound on message content, in characters.
const MaxMessageLength = 2000

// DeletedMessageContent replaces the content of a soft-deleted message.
const DeletedMessageContent = "This message was deleted"

type ChatMessage struct {
	ID          int64      `json:"id"`
	RoomID      *uuid.UUID `json:"room_id,omitempty"`
	GroupID     *uuid.UUID `json:"group_id,omitempty"`
	AuthorID    uuid.UUID  `json:"author_id"`
	AuthorName  string     `json:"author_name,omitempty"`
	AuthorImage *string    `json:"author_image,omitempty"`
	Content     string     `json:"content"`
	IsEdited    bool       `json:"is_edited"`
	IsDeleted   bool       `json:"is_deleted"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Scope reconstructs the tagged scope from the stored row. Exactly one of
// RoomID/GroupID is set for every persisted message.
func (m *ChatMessage) Scope() Scope {
	if m.RoomID != nil {
		return RoomScope(*m.RoomID)
	}
	return GroupScope(*m.GroupID)
}
