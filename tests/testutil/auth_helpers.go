package testutil

import (
	"github.com/gin-gonic/gin"

	"github.com/pureflow/pureflow-api/middleware"
	"github.com/pureflow/pureflow-api/models"
)

// AsPrincipal returns a middleware that injects the given acting user,
// standing in for EnsureValidToken+ResolvePrincipal in tests.
func AsPrincipal(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetPrincipal(c, middleware.Principal{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

// AsRole injects a principal with an arbitrary id and the given role, for
// tests that only care about authorization, not ownership.
func AsRole(id uint, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetPrincipal(c, middleware.Principal{ID: id, Role: role})
		c.Next()
	}
}
