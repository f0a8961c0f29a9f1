package mw

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"silant-backend/internal/access"
	"silant-backend/internal/apperr"
	"silant-backend/internal/auth"
	"silant-backend/internal/model"
	"silant-backend/internal/store"
)

const actorKey = "actor"

// UserSource loads the user a token names.
type UserSource interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

// Authenticate resolves the bearer token, if any, into the request's
// actor. Requests without an Authorization header run as the anonymous
// actor; a header that does not hold a valid token for an existing user
// is rejected with 401. The user is reloaded so role changes apply
// immediately.
func Authenticate(users UserSource, tokens *auth.Tokens, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(actorKey, access.Anonymous())
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abort(c, apperr.Unauthenticated("invalid authorization header format"))
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			log.Debug("token rejected", zap.String("request_id", RequestIDFrom(c)), zap.Error(err))
			abort(c, apperr.Unauthenticated("invalid or expired token"))
			return
		}

		u, err := users.GetUser(c.Request.Context(), claims.UserID)
		if errors.Is(err, store.ErrNotFound) {
			abort(c, apperr.Unauthenticated("user no longer exists"))
			return
		}
		if err != nil {
			abort(c, apperr.Internal(err))
			return
		}

		c.Set(actorKey, access.ActorFor(u))
		c.Next()
	}
}

// ActorFrom returns the actor Authenticate stored, or the anonymous actor.
func ActorFrom(c *gin.Context) access.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(access.Actor); ok {
			return a
		}
	}
	return access.Anonymous()
}

func abort(c *gin.Context, err error) {
	c.Error(err)
	c.AbortWithStatusJSON(apperr.Render(err))
}
