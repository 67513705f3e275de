package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Omarzahran17/gym-flow-sub001/internal/api"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

func AuthMiddleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Authorization header required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid authorization header format"})
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Token is empty"})
			return
		}

		claims, err := ValidateToken(tokenString, accessTokenSecret)
		if err != nil {
			msg := "Invalid or malformed token"
			if errors.Is(err, ErrTokenExpired) {
				msg = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: msg})
			return
		}

		if claims.TokenType != tokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Access token required"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)

		c.Next()
	}
}

// RequireRole lets the request through when the authenticated role is one of
// roles. It must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User role not found"})
			return
		}

		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{Error: "Insufficient permissions"})
			return
		}

		c.Next()
	}
}

func GetUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(int)
	if !ok {
		return 0, false
	}

	return id, true
}

func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(ctxUserRole)
	if !exists {
		return "", false
	}
	s, ok := role.(string)
	return s, ok
}
