package middleware

import (
	"github.com/gin-gonic/gin"

	"merchtable/internal/core/appctx"
	"merchtable/internal/core/id"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorName = "X-Actor-Name"
)

// ActorContext extracts the acting user from request headers and adds it to
// the request context. Every stock mutation and sale records this actor in
// the audit trail, so mutating endpoints require the header.
//
// Usage in router:
//
//	protected.Use(middleware.ActorContext())
func ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderActorID)
		if raw != "" {
			if actorID, err := id.Parse(raw); err == nil {
				ctx := appctx.WithActor(c.Request.Context(), appctx.Actor{
					ActorID: actorID,
					Name:    c.GetHeader(HeaderActorName),
				})
				c.Request = c.Request.WithContext(ctx)
				c.Set("actor_id", actorID.String())
			}
		}
		c.Next()
	}
}
