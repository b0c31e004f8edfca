package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"mentorchat/internal/domain"
	"mentorchat/internal/service"
	"mentorchat/pkg/errors"
	"mentorchat/pkg/logger"
)

// RoomHandler exposes join/leave/heartbeat and the online listing for rooms
// and groups.
type RoomHandler struct {
	roomService service.RoomService
	log         logger.Logger
}

func NewRoomHandler(roomService service.RoomService, log logger.Logger) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		log:         log,
	}
}

func (h *RoomHandler) Join(kind domain.ScopeKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFromParam(c, kind)
		if !ok {
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		if err := h.roomService.Join(c.Request.Context(), scope, userID); err != nil {
			c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "joined"})
	}
}

func (h *RoomHandler) Leave(kind domain.ScopeKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFromParam(c, kind)
		if !ok {
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		if err := h.roomService.Leave(c.Request.Context(), scope, userID); err != nil {
			c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "left"})
	}
}

func (h *RoomHandler) Heartbeat(kind domain.ScopeKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFromParam(c, kind)
		if !ok {
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		if err := h.roomService.Heartbeat(c.Request.Context(), scope, userID); err != nil {
			c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (h *RoomHandler) Online(kind domain.ScopeKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFromParam(c, kind)
		if !ok {
			return
		}

		userIDs, err := h.roomService.OnlineUsers(c.Request.Context(), scope)
		if err != nil {
			c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"online": userIDs,
			"count":  len(userIDs),
		})
	}
}
