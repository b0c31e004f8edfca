package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope every broadcast channel carries. Payload shapes are
// fixed per type; consumers dispatch on Type.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	EventChatMessage     = "CHAT_MESSAGE"
	EventMessageEdit     = "MESSAGE_EDIT"
	EventMessageDelete   = "MESSAGE_DELETE"
	EventTypingIndicator = "TYPING_INDICATOR"
	EventUserJoined      = "USER_JOINED"
	EventUserLeft        = "USER_LEFT"
)

type ChatMessagePayload struct {
	ID          int64      `json:"id"`
	Content     string     `json:"content"`
	RoomID      *uuid.UUID `json:"room_id,omitempty"`
	GroupID     *uuid.UUID `json:"group_id,omitempty"`
	AuthorID    uuid.UUID  `json:"author_id"`
	AuthorName  string     `json:"author_name"`
	AuthorImage *string    `json:"author_image,omitempty"`
	IsEdited    bool       `json:"is_edited"`
	CreatedAt   time.Time  `json:"created_at"`
}

type MessageEditPayload struct {
	MessageID int64  `json:"message_id"`
	Content   string `json:"content"`
	IsEdited  bool   `json:"is_edited"`
}

type MessageDeletePayload struct {
	MessageID int64 `json:"message_id"`
}

type TypingIndicatorPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name"`
	IsTyping bool      `json:"is_typing"`
}

type UserJoinedPayload struct {
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserImage *string   `json:"user_image,omitempty"`
}

type UserLeftPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

func NewChatMessageEvent(msg *ChatMessage) Event {
	return Event{
		Type: EventChatMessage,
		Payload: ChatMessagePayload{
			ID:          msg.ID,
			Content:     msg.Content,
			RoomID:      msg.RoomID,
			GroupID:     msg.GroupID,
			AuthorID:    msg.AuthorID,
			AuthorName:  msg.AuthorName,
			AuthorImage: msg.AuthorImage,
			IsEdited:    msg.IsEdited,
			CreatedAt:   msg.CreatedAt,
		},
	}
}

func NewMessageEditEvent(messageID int64, content string) Event {
	return Event{
		Type:    EventMessageEdit,
		Payload: MessageEditPayload{MessageID: messageID, Content: content, IsEdited: true},
	}
}

func NewMessageDeleteEvent(messageID int64) Event {
	return Event{
		Type:    EventMessageDelete,
		Payload: MessageDeletePayload{MessageID: messageID},
	}
}

func NewTypingIndicatorEvent(userID uuid.UUID, userName string, isTyping bool) Event {
	return Event{
		Type:    EventTypingIndicator,
		Payload: TypingIndicatorPayload{UserID: userID, UserName: userName, IsTyping: isTyping},
	}
}

func NewUserJoinedEvent(userID uuid.UUID, userName string, userImage *string) Event {
	return Event{
		Type:    EventUserJoined,
		Payload: UserJoinedPayload{UserID: userID, UserName: userName, UserImage: userImage},
	}
}

func NewUserLeftEvent(userID uuid.UUID) Event {
	return Event{
		Type:    EventUserLeft,
		Payload: UserLeftPayload{UserID: userID},
	}
}
