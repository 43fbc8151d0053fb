package middleware

import (
	"net/http"
	"strings"

	"room-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the JWT access token from the Authorization
// header. A missing header is a 403, a malformed or invalid token a 401.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusForbidden, "No token provided")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := utils.ValidateAccessToken(parts[1])
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		// Inject identity into context
		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("username", claims.Username)

		c.Next()
	}
}

// RequireRole checks that the authenticated user holds the given role.
// Applied after AuthMiddleware; this is the single authorization layer,
// handlers never compare role strings themselves.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, exists := c.Get("role")
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		if current != role {
			utils.ErrorResponse(c, http.StatusForbidden, "Forbidden")
			c.Abort()
			return
		}

		c.Next()
	}
}
