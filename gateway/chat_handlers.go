package gateway

import (
	"chat-mesh/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

type createChatRequest struct {
	Members []string        `json:"members" binding:"required,min=1"`
	Kind    domain.ChatKind `json:"kind" binding:"required,oneof=private group"`
}

func (s *Server) createChat(c *gin.Context) {
	var req createChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chat, err := s.chats.CreateChat(c.Request.Context(), GetUserID(c), req.Members, req.Kind)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

func (s *Server) listChats(c *gin.Context) {
	ids, err := s.chats.ListChatsFor(c.Request.Context(), GetUserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	if ids == nil {
		ids = []domain.ChatID{}
	}
	c.JSON(http.StatusOK, gin.H{"chat_ids": ids})
}

// getChat hides chats from non-members instead of acknowledging their
// existence.
func (s *Server) getChat(c *gin.Context) {
	chat, err := s.chats.GetChat(c.Request.Context(), domain.ChatID(c.Param("id")))
	if err != nil {
		renderError(c, err)
		return
	}
	if !chat.HasMember(GetUserID(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, chat)
}
