package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arslan3373/client-doctor-project/internal/app"
	"github.com/arslan3373/client-doctor-project/internal/auth"
	"github.com/arslan3373/client-doctor-project/internal/domain"
)

const callerKey = "caller"

// AuthMiddleware resolves the bearer credential into a Caller and stores it
// in the request context. Role and participant checks happen in the access
// policy, not here.
func AuthMiddleware(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := verifier.Verify(parts[1])
		if err != nil {
			Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(callerKey, app.Caller{
			ID:   domain.UserID(claims.UserID),
			Role: claims.Role,
		})
		c.Next()
	}
}

// GetCallerFromContext returns the Caller stored by AuthMiddleware.
func GetCallerFromContext(c *gin.Context) (app.Caller, bool) {
	v, exists := c.Get(callerKey)
	if !exists {
		return app.Caller{}, false
	}
	caller, ok := v.(app.Caller)
	return caller, ok
}
