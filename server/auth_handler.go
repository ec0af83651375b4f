package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"forum-chat/services"
)

type AuthHandler struct {
	log     *slog.Logger
	service services.IAuthService
}

func NewAuthHandler(log *slog.Logger, service services.IAuthService) *AuthHandler {
	return &AuthHandler{log: log, service: service}
}

type authRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// RealtimeToken exchanges a user id for the opaque token payload the
// realtime transport consumes. Clients forward the body unmodified.
func (h *AuthHandler) RealtimeToken(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.service.RealtimeToken(req.UserID)
	if err != nil {
		h.log.Error("Token grant failed", "user", req.UserID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, payload)
}
