// Package middleware provides HTTP middleware for the Gin router.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys for authenticated request data, used with c.Set()/c.Get().
const (
	UsernameKey = "username"
	TokenKey    = "token"
)

// Authenticator resolves a bearer token to a username. Satisfied by
// services.AccountService.
type Authenticator interface {
	Authenticate(token string) (string, bool)
}

// TokenAuth validates the Authorization header ("Bearer <token>") against
// the session store and puts the username into the request context.
func TokenAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			c.Abort()
			return
		}

		token := parts[1]
		username, ok := auth.Authenticate(token)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(UsernameKey, username)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// GetUsername retrieves the username set by TokenAuth. Only valid on
// routes behind the middleware.
func GetUsername(c *gin.Context) string {
	username, _ := c.Get(UsernameKey)
	return username.(string)
}

// GetToken retrieves the bearer token set by TokenAuth.
func GetToken(c *gin.Context) string {
	token, _ := c.Get(TokenKey)
	return token.(string)
}
