package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ddd-blog/internal/interface/http"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
)

type CommentModule struct {
	Handler *handlers.CommentHandler
	Redis   *redis.Client
}

func NewCommentModule(h *handlers.CommentHandler, rdb *redis.Client) *CommentModule {
	return &CommentModule{Handler: h, Redis: rdb}
}

func (m *CommentModule) Register(rg *gin.RouterGroup) {
	writeLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), nil)

	comments := rg.Group("/comments", writeLimiter)
	comments.POST("", m.Handler.Create)
	comments.POST("/:id/replies", m.Handler.Reply)
	comments.PATCH("/:id", m.Handler.Update)
	comments.DELETE("/:id", m.Handler.Delete)
}
