// Package gateway exposes the messaging core over HTTP and WebSocket.
// REST endpoints cover identity, chats and messages; the stream
// endpoints upgrade to WebSocket and pump subscription deliveries.
package gateway

import (
	"chat-mesh/auth"
	"chat-mesh/repositories"
	"chat-mesh/runtime"
	"chat-mesh/services"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Server struct {
	log          *slog.Logger
	auth         services.IAuthService
	chats        services.IChatService
	messages     services.IMessageService
	users        repositories.IUserRepository
	hub          *runtime.Hub
	issuer       *auth.Issuer
	upgrader     websocket.Upgrader
	streamBuffer int
}

func NewServer(log *slog.Logger, authService services.IAuthService, chatService services.IChatService,
	messageService services.IMessageService, users repositories.IUserRepository,
	hub *runtime.Hub, issuer *auth.Issuer, streamBuffer int) *Server {
	return &Server{
		log:      log,
		auth:     authService,
		chats:    chatService,
		messages: messageService,
		users:    users,
		hub:      hub,
		issuer:   issuer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		streamBuffer: streamBuffer,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.POST("/auth/register", s.register)
	v1.POST("/auth/login", s.login)

	authorized := v1.Group("")
	authorized.Use(AuthRequired(s.issuer))
	{
		authorized.GET("/users", s.listUsers)
		authorized.PATCH("/users/me", s.updateProfile)

		authorized.POST("/chats", s.createChat)
		authorized.GET("/chats", s.listChats)
		authorized.GET("/chats/:id", s.getChat)

		authorized.POST("/chats/:id/messages", s.appendMessage)
		authorized.GET("/chats/:id/messages", s.listMessages)
		authorized.PATCH("/chats/:id/messages/:mid", s.editMessage)
		authorized.DELETE("/chats/:id/messages/:mid", s.removeMessage)
		authorized.GET("/chats/:id/search", s.searchMessages)

		authorized.GET("/chats/:id/stream", s.streamMessages)
		authorized.GET("/stream/chats", s.streamChatList)
	}
	return router
}
