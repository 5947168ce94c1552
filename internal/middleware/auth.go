package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/auth"
	"github.com/campushub/backend/internal/errors"
	"github.com/campushub/backend/internal/util"
)

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth validates the Bearer token and loads the user into the
// request context. Requests without a valid token are rejected.
func RequireAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			util.RespondUnauthorized(c, "missing or malformed Authorization header")
			c.Abort()
			return
		}

		user, err := svc.ValidateToken(token)
		if err != nil {
			if err == auth.ErrUserBanned {
				util.RespondWithAPIError(c, errors.Forbidden("account is banned"))
			} else {
				util.RespondUnauthorized(c, "invalid or expired token")
			}
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuth loads the user into the context when a valid token is
// present but lets anonymous requests through untouched.
func OptionalAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" {
			if user, err := svc.ValidateToken(token); err == nil {
				c.Set("user_id", user.ID)
				c.Set("user", user)
			}
		}
		c.Next()
	}
}
