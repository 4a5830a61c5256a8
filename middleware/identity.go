package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const UserEmailKey = "userEmail"

// RequireIdentity pulls the caller's email out of the X-User-Email
// header set by the auth proxy in front of this service. The service
// itself does not authenticate; identity arrives as an opaque fact.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader("X-User-Email")
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Set(UserEmailKey, email)
		c.Next()
	}
}
