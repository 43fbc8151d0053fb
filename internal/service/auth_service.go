package service

import (
	"errors"
	"fmt"
	"time"

	"room-booking-backend/internal/models"
	"room-booking-backend/pkg/utils"

	"gorm.io/gorm"
)

// UserStore is the persistence surface AuthService needs.
type UserStore interface {
	FindByUsername(username string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Create(user *models.User) error
	CreateRefreshToken(token *models.RefreshToken) error
	FindRefreshTokenByHash(hash string) (*models.RefreshToken, error)
	RevokeRefreshTokenByHash(hash string) error
}

// AuditStore records security-relevant actions.
type AuditStore interface {
	CreateAuditLog(userID *uint, action string, details string) error
}

type AuthService struct {
	users UserStore
	audit AuditStore
}

func NewAuthService(users UserStore, audit AuditStore) *AuthService {
	return &AuthService{users: users, audit: audit}
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"-"`
	User         UserResponse `json:"user"`
}

// Register creates a new student account
func (s *AuthService) Register(name, username, password string) (*UserResponse, error) {
	if _, err := s.users.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         models.RoleStudent,
	}

	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	userIDPtr := &user.ID
	_ = s.audit.CreateAuditLog(userIDPtr, "user_registration", fmt.Sprintf("User %s registered", username))

	return &UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// Login authenticates a user and returns a signed access token plus a
// refresh token
func (s *AuthService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.ComparePassword(user.PasswordHash, password) {
		return nil, ErrInvalidPassword
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	tokenHash := utils.HashRefreshToken(refreshToken)
	refreshTokenModel := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(utils.GetRefreshTokenExpiry()),
	}

	if err := s.users.CreateRefreshToken(refreshTokenModel); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	userIDPtr := &user.ID
	_ = s.audit.CreateAuditLog(userIDPtr, "user_login", fmt.Sprintf("User %s logged in", username))

	return &LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			ID:       user.ID,
			Name:     user.Name,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

// RefreshAccessToken generates a new access token from a refresh token
func (s *AuthService) RefreshAccessToken(refreshToken string) (string, error) {
	tokenHash := utils.HashRefreshToken(refreshToken)

	token, err := s.users.FindRefreshTokenByHash(tokenHash)
	if err != nil {
		return "", ErrInvalidRefresh
	}

	if time.Now().After(token.ExpiresAt) {
		return "", ErrInvalidRefresh
	}

	accessToken, err := utils.GenerateAccessToken(token.User.ID, token.User.Role, token.User.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(refreshToken string) error {
	tokenHash := utils.HashRefreshToken(refreshToken)

	if err := s.users.RevokeRefreshTokenByHash(tokenHash); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

// GetUser retrieves public profile info for a user
func (s *AuthService) GetUser(id uint) (*UserResponse, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return &UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
