package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"mentorchat/internal/domain"
	"mentorchat/internal/service"
	"mentorchat/pkg/errors"
	"mentorchat/pkg/logger"
)

type ChatHandler struct {
	chatService service.ChatService
	log         logger.Logger
}

func NewChatHandler(chatService service.ChatService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log,
	}
}

// scopeFromParam builds the tagged scope from the route. The roomId-XOR-groupId
// check of the wire protocol happens here, by construction: each route carries
// exactly one scope id.
func scopeFromParam(c *gin.Context, kind domain.ScopeKind) (domain.Scope, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + string(kind) + " ID"})
		return domain.Scope{}, false
	}
	return domain.Scope{Kind: kind, ID: id}, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, false
	}
	return v.(uuid.UUID), true
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *ChatHandler) SendMessage(kind domain.ScopeKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFromParam(c, kind)
		if !ok {
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var req SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		message, err := h.chatService.SendMessage(c.Request.Context(), scope, userID, req.Content)
		if err != nil {
			c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, message)
	}
}

func (h *ChatHandler) GetMessages(kind domain.ScopeKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFromParam(c, kind)
		if !ok {
			return
		}

		cursor, _ := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

		messages, err := h.chatService.GetMessages(c.Request.Context(), scope, cursor, limit)
		if err != nil {
			c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"messages": messages})
	}
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *ChatHandler) EditMessage(c *gin.Context) {
	messageID, err := strconv.ParseInt(c.Param("messageId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chatService.EditMessage(c.Request.Context(), messageID, userID, req.Content)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	messageID, err := strconv.ParseInt(c.Param("messageId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.chatService.DeleteMessage(c.Request.Context(), messageID, userID); err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

type TypingRequest struct {
	IsTyping *bool `json:"is_typing" binding:"required"`
}

func (h *ChatHandler) Typing(kind domain.ScopeKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFromParam(c, kind)
		if !ok {
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var req TypingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		userName := c.GetString("user_name")
		h.chatService.BroadcastTyping(c.Request.Context(), scope, userID, userName, *req.IsTyping)

		c.JSON(http.StatusAccepted, gin.H{"status": "ok"})
	}
}
