package server

import (
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/gin-gonic/gin"
)

// RequireRoles lets the request through only for the listed roles.
// Ownership and per-action permissions are checked again by the services.
func RequireRoles(roles ...authdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !actor.HasRole(roles...) {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// mustActor returns the authenticated actor or aborts the request.
func mustActor(c *gin.Context) (authdomain.Actor, bool) {
	actor, ok := actorFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return authdomain.Actor{}, false
	}
	return actor, true
}
