// Package auth provides middleware that guards host-only routes
package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/gamenight-api/internal/auth"
	"github.com/gravadigital/gamenight-api/internal/response"
)

// RequireHost validates the bearer token on mutating routes
func RequireHost(secret string) gin.HandlerFunc {
	secretBytes := []byte(secret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.UnauthorizedError(c, "missing authorization header")
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			response.UnauthorizedError(c, "authorization header must use the Bearer scheme")
			c.Abort()
			return
		}

		claims, err := auth.VerifyHostToken(secretBytes, tokenString)
		if err != nil {
			response.UnauthorizedError(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("host_claims", claims)
		c.Next()
	}
}
