package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"room-booking-backend/internal/service"
	"room-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles student registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.authService.Register(req.Name, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"user": user,
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	response, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidPassword):
			utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	// Refresh token travels as an HttpOnly cookie, access token in the body
	c.SetCookie(
		"refresh_token",
		response.RefreshToken,
		int(utils.GetRefreshTokenExpiry()/time.Second),
		"/",
		"",
		false,
		true,
	)

	utils.SuccessResponse(c, gin.H{
		"token": response.Token,
		"user":  response.User,
	})
}

// Refresh generates a new access token from the refresh token cookie
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(refreshToken)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token": accessToken,
	})
}

// Logout revokes the refresh token and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		c.SetCookie("refresh_token", "", -1, "/", "", false, true)
		utils.MessageResponse(c, "Logged out successfully")
		return
	}

	if err := h.authService.Logout(refreshToken); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to logout")
		return
	}

	c.SetCookie("refresh_token", "", -1, "/", "", false, true)

	utils.MessageResponse(c, "Logged out successfully")
}

// GetUser returns public profile info for a user
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.authService.GetUser(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user,
	})
}
