package gateway

import (
	"chat-mesh/domain"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type postMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) appendMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := s.messages.Append(c.Request.Context(),
		domain.ChatID(c.Param("id")), GetUserID(c), req.Text)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (s *Server) listMessages(c *gin.Context) {
	chatID := domain.ChatID(c.Param("id"))
	if !s.requireMembership(c, chatID) {
		return
	}
	msgs, err := s.messages.ListOrdered(c.Request.Context(), chatID)
	if err != nil {
		renderError(c, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (s *Server) editMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msgID, err := uuid.Parse(c.Param("mid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	msg, err := s.messages.Edit(c.Request.Context(),
		domain.ChatID(c.Param("id")), msgID, GetUserID(c), req.Text)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (s *Server) removeMessage(c *gin.Context) {
	msgID, err := uuid.Parse(c.Param("mid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	err = s.messages.Remove(c.Request.Context(),
		domain.ChatID(c.Param("id")), msgID, GetUserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// searchMessages handles GET /v1/chats/:id/search?q=terms&limit=20
func (s *Server) searchMessages(c *gin.Context) {
	chatID := domain.ChatID(c.Param("id"))
	if !s.requireMembership(c, chatID) {
		return
	}
	terms := c.Query("q")
	if terms == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing q parameter"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	msgs, err := s.messages.Search(c.Request.Context(), chatID, terms, limit)
	if err != nil {
		renderError(c, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// requireMembership loads the chat and rejects non-members. Replies on
// the context itself when the check fails.
func (s *Server) requireMembership(c *gin.Context, chatID domain.ChatID) bool {
	chat, err := s.chats.GetChat(c.Request.Context(), chatID)
	if err != nil {
		renderError(c, err)
		return false
	}
	if !chat.HasMember(GetUserID(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "sender is not a member of the chat"})
		return false
	}
	return true
}
