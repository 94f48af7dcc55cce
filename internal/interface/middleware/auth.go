package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/pkg/apperror"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
	"github.com/oksasatya/go-ddd-blog/pkg/response"
)

const (
	CtxActorKey  = "actor"
	CtxUserIDKey = "userID"
)

// ActorResolver turns an access token into the acting user.
type ActorResolver interface {
	ResolveActor(ctx context.Context, accessToken string) (*entity.Actor, error)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if token, err := c.Cookie(helpers.AccessCookie); err == nil {
		return token
	}
	return ""
}

// Authenticate resolves an optional actor from the Authorization header or the
// access_token cookie. Requests without a usable token continue anonymously.
func Authenticate(resolver ActorResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" || resolver == nil {
			c.Next()
			return
		}
		actor, err := resolver.ResolveActor(c.Request.Context(), token)
		if err != nil {
			if !apperror.Is(err, apperror.Unauthenticated) && logger != nil {
				logger.WithError(err).WithField("request_id", c.GetString("request_id")).Warn("resolve actor failed")
			}
			c.Next()
			return
		}
		c.Set(CtxActorKey, actor)
		c.Set(CtxUserIDKey, strconv.FormatInt(actor.ID, 10))
		c.Next()
	}
}

// RequireActor rejects anonymous requests with 401.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ActorFrom(c) == nil {
			response.Fail(c, http.StatusUnauthorized, "login required", response.ErrorBody{Kind: apperror.Unauthenticated.String()})
			return
		}
		c.Next()
	}
}

// ActorFrom returns the resolved actor or nil.
func ActorFrom(c *gin.Context) *entity.Actor {
	v, ok := c.Get(CtxActorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*entity.Actor)
	return actor
}
