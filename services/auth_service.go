package services

import (
	"chat-mesh/auth"
	"chat-mesh/errors"
	"chat-mesh/repositories"
	"fmt"
)

// Identity is what the rest of the system sees after authentication:
// a stable opaque user id plus a display name. Credentials never
// leave this service.
type Identity struct {
	UserID      string
	DisplayName string
}

type Token string

type IAuthService interface {
	Register(email, password, displayName string) (Identity, Token, error)
	Login(email, password string) (Identity, Token, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	issuer         *auth.Issuer
}

func NewAuthService(repo repositories.IUserRepository, issuer *auth.Issuer) IAuthService {
	return &AuthService{userRepository: repo, issuer: issuer}
}

func (s *AuthService) Register(email, password, displayName string) (Identity, Token, error) {
	valReq := auth.RegisterRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}

	// Validate business rules before any expensive cryptographic work.
	if err := auth.ValidateRegister(valReq); err != nil {
		return Identity{}, "", fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// Hashing happens here to keep the repository unaware of plain
	// passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return Identity{}, "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.userRepository.CreateUser(email, hashedPassword, displayName)
	if err != nil {
		return Identity{}, "", err // Propagates ErrUserAlreadyExists if the email is taken
	}

	token, err := s.issuer.Issue(userID, displayName)
	if err != nil {
		return Identity{}, "", errors.ErrTokenGeneration
	}
	return Identity{UserID: userID, DisplayName: displayName}, Token(token), nil
}

func (s *AuthService) Login(email, password string) (Identity, Token, error) {
	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration.
		return Identity{}, "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return Identity{}, "", errors.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.DisplayName)
	if err != nil {
		return Identity{}, "", errors.ErrTokenGeneration
	}
	return Identity{UserID: user.ID, DisplayName: user.DisplayName}, Token(token), nil
}
