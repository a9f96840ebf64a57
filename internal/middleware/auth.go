package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"property-portal/internal/auth"
	"property-portal/internal/database"
	"property-portal/internal/models"
)

const (
	userKey  = "currentUser"
	tokenKey = "currentToken"
)

// Auth validates the session token from the jwt cookie or an
// Authorization bearer header and loads the account into the context.
func Auth(db *database.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "fail",
				"message": nil,
				"error":   "You are not logged in.",
			})
			return
		}

		claims, err := auth.ValidateToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "fail",
				"message": nil,
				"error":   "Invalid or expired token.",
			})
			return
		}

		user, err := db.GetUserByID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "fail",
				"message": nil,
				"error":   "Authentication failed. User does not exist.",
			})
			return
		}

		c.Set(userKey, user)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// CurrentUser returns the account loaded by Auth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// CurrentToken returns the raw token the request authenticated with.
func CurrentToken(c *gin.Context) string {
	value, exists := c.Get(tokenKey)
	if !exists {
		return ""
	}
	token, _ := value.(string)
	return token
}

// extractToken prefers the jwt cookie, falling back to a bearer
// header so API clients work without cookies.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("jwt"); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
