package middleware

import (
	"net/http"
	"strings"

	"mini-crm/internal/auth"
	"mini-crm/internal/models"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "CurrentUser"

// RequireAuth resolves the bearer token into an identity and stores it on
// the request context. Requests without a valid token never reach the
// handler.
func RequireAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No token, authorization denied",
			})
			return
		}

		user, err := svc.Authenticate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Token is not valid",
			})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the identity placed by RequireAuth. Only call it
// behind that middleware.
func CurrentUser(c *gin.Context) *models.User {
	u, _ := c.MustGet(currentUserKey).(*models.User)
	return u
}
