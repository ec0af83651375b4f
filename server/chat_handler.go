package server

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"forum-chat/domain"
	"forum-chat/errors"
	"forum-chat/services"
)

type ChatHandler struct {
	log     *slog.Logger
	service services.IChatService
}

func NewChatHandler(log *slog.Logger, service services.IChatService) *ChatHandler {
	return &ChatHandler{log: log, service: service}
}

type sendRequest struct {
	Message    string `json:"message" binding:"required"`
	ReceiverID int64  `json:"receiver_id" binding:"required"`
	SenderID   int64  `json:"sender_id" binding:"required"`
	SenderName string `json:"sender_name"`
}

// Send persists a message and returns the wire shape of the stored entry.
// Live fan-out to both participants happens inside the service.
func (h *ChatHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.service.PostMessage(c.Request.Context(), domain.SendCommand{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Body:       req.Message,
		SenderName: req.SenderName,
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrInvalidCommand) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Send failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store message"})
		return
	}

	c.JSON(http.StatusCreated, domain.FromMessage(msg))
}

// Conversation returns the ordered history between the requesting user and
// the counterpart in the path.
func (h *ChatHandler) Conversation(c *gin.Context) {
	counterpartID, err := strconv.ParseInt(c.Param("counterpartID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid counterpart id"})
		return
	}
	currentUserID, err := strconv.ParseInt(c.Query("current_user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid current_user_id"})
		return
	}

	messages, err := h.service.Conversation(c.Request.Context(), currentUserID, counterpartID)
	if err != nil {
		h.log.Error("Conversation lookup failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load messages"})
		return
	}

	c.JSON(http.StatusOK, lo.Map(messages, func(m domain.Message, _ int) domain.WireMessage {
		return domain.FromMessage(m)
	}))
}
