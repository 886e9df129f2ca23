package middleware

import (
	"net/http"
	"strings"

	"bookhaven/internal/models"
	"bookhaven/internal/services"

	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

// bearerToken extracts the token from an Authorization header
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// resolveUser loads the user behind a bearer token, if any
func resolveUser(c *gin.Context, auth services.AuthServiceInterface) *models.User {
	token := bearerToken(c)
	if token == "" {
		return nil
	}

	claims, err := auth.ParseAccessToken(token)
	if err != nil {
		return nil
	}

	user, err := auth.GetUser(claims.UserID)
	if err != nil || !user.IsActive {
		return nil
	}
	return user
}

// RequireAuth rejects requests without a valid access token
func RequireAuth(auth services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := resolveUser(c, auth)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present but lets
// anonymous requests through. The checkout capture endpoint depends on this
// to serve both guests and logged-in buyers.
func OptionalAuth(auth services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := resolveUser(c, auth); user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// RequireAdmin rejects requests from non-admin users. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
