package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopchat/internal/models"
	"shopchat/internal/service/chat"
)

// ChatService is the conversation surface the handlers depend on.
type ChatService interface {
	HandleTurn(ctx context.Context, rawMessage, clientToken string) (*chat.TurnResult, error)
	Transcript(ctx context.Context, token string) ([]models.Message, error)
}

// Handler wires HTTP routes to the conversation service.
type Handler struct {
	chat ChatService
}

// NewHandler constructs a Handler instance.
func NewHandler(chatSvc ChatService) *Handler {
	return &Handler{chat: chatSvc}
}

// RegisterRoutes attaches the chat routes to the router. A nil limiter leaves
// the group unthrottled.
func (h *Handler) RegisterRoutes(router *gin.Engine, limiter gin.HandlerFunc) {
	grp := router.Group("/chat")
	if limiter != nil {
		grp.Use(limiter)
	}
	grp.GET("/:sessionId", h.getTranscript)
	grp.POST("/message", h.sendMessage)
}

type messageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message format"})
		return
	}

	result, err := h.chat.HandleTurn(c.Request.Context(), req.Message, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		case errors.Is(err, chat.ErrMessageTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is too long. Max 200 characters."})
		default:
			log.Printf("handle turn failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   result.Reply,
		"sessionId": result.SessionID,
	})
}

func (h *Handler) getTranscript(c *gin.Context) {
	messages, err := h.chat.Transcript(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrInvalidSession):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		case errors.Is(err, chat.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		default:
			log.Printf("fetch transcript failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages."})
		}
		return
	}

	if messages == nil {
		messages = make([]models.Message, 0)
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
