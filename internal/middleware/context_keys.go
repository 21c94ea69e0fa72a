package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// actorKey is the key used to store the acting party (for audit records)
// in the request context.
const actorKey = contextKey("actor")

// defaultActor is recorded when a caller does not identify itself.
const defaultActor = "console"

// ActorMiddleware records the acting party from the X-Actor header into the
// request context. Authentication of that identity is the permission
// layer's concern, not ours; the value only feeds audit records.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader("X-Actor")
		if actor == "" {
			actor = defaultActor
		}
		ctx := context.WithValue(c.Request.Context(), actorKey, actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetActorFromCtx retrieves the acting party from the context.
func GetActorFromCtx(ctx context.Context) string {
	actor, ok := ctx.Value(actorKey).(string)
	if !ok || actor == "" {
		return defaultActor
	}
	return actor
}
