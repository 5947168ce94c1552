package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/util"
)

// RequireAdmin must run after RequireAuth. It rejects requests whose
// authenticated user does not hold the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := util.GetUserFromContext(c)
		if !ok {
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			util.RespondForbidden(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
