package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kavholm/kavholm-golang/internal/auth"
	"github.com/kavholm/kavholm-golang/internal/store"
)

// AuthMiddleware validates the Bearer token and loads the acting user into
// the request context ("userID" and "username"). The username lookup goes
// through the user store so handlers never have to resolve it themselves.
func AuthMiddleware(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 2. --- Validate Token ---
		userID, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// 3. --- Resolve the Acting User ---
		// The token only carries the user ID; fetch the current username so
		// downstream handlers work with the user's identity, not a snapshot.
		user, err := users.GetUserByID(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
			c.Abort()
			return
		}

		// 4. --- Success ---
		c.Set("userID", user.ID)
		c.Set("username", user.Username)
		c.Next()
	}
}
