package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identity, token, err := s.auth.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		Token:       string(token),
	})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identity, token, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		Token:       string(token),
	})
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.ListUsers()
	if err != nil {
		s.log.Error("Failed to list users", "error", err)
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type updateProfileRequest struct {
	DisplayName string  `json:"display_name" binding:"required"`
	Contact     *string `json:"contact"`
}

// updateProfile mutates the caller's own profile only; the user id
// comes from the verified token, never from the request body.
func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := s.users.UpdateProfile(GetUserID(c), req.DisplayName, req.Contact)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
