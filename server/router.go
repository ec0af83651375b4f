// Package server exposes the REST surface consumed by chat sessions:
// realtime auth, conversation history, and send.
package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

func NewRouter(log *slog.Logger, chat *ChatHandler, auth *AuthHandler) *gin.Engine {
	r := gin.New()
	r.Use(slogMiddleware(log), gin.Recovery())

	r.POST("/realtime/auth", auth.RealtimeToken)
	r.GET("/chat/messages/:counterpartID", chat.Conversation)
	r.POST("/chat/send", chat.Send)

	return r
}

func slogMiddleware(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
