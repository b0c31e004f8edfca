package domain

import (
	"time"

	"github.com/google/uuid"
)

type ModerationLogEntry struct {
	ID          int64                  `json:"id"`
	ModeratorID uuid.UUID              `json:"moderator_id"`
	TargetID    string                 `json:"target_id"`
	ActionType  string                 `json:"action_type"`
	Reason      *string                `json:"reason,omitempty"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"created_at"`
}

const (
	ModerationActionMessageDeleted = "MESSAGE_DELETED"
	ModerationActionUserMuted      = "USER_MUTED"
)
