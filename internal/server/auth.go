package server

import (
	"context"
	"strings"

	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auditcontext"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	obscontext "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/context"
	"github.com/gin-gonic/gin"
)

const contextActorKey = "actor"

// AuthRequired resolves the bearer credential into an actor.
// The actor is stored on the gin context and mirrored into the request
// context for logging and audit records.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.authn == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, authdomain.ErrMissingCredential)
			return
		}
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			AbortWithError(c, authdomain.ErrInvalidCredential)
			return
		}

		actor, err := s.authn.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextActorKey, actor)
		ctx := withActor(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func withActor(ctx context.Context, actor authdomain.Actor) context.Context {
	role := string(actor.Role)
	id := actor.IDString()
	ctx = obscontext.WithActor(ctx, role, id)
	return auditcontext.WithActor(ctx, role, id)
}

func actorFromContext(c *gin.Context) (authdomain.Actor, bool) {
	value, ok := c.Get(contextActorKey)
	if !ok {
		return authdomain.Actor{}, false
	}
	actor, ok := value.(authdomain.Actor)
	return actor, ok
}
