package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ddd-blog/internal/interface/http"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
)

// PostModule: posts, their likes and their comment threads.
type PostModule struct {
	Handler      *handlers.PostHandler
	Redis        *redis.Client
	PageDefault  int
	PageMaxLimit int
}

func NewPostModule(h *handlers.PostHandler, rdb *redis.Client, pageDefault, pageMax int) *PostModule {
	return &PostModule{Handler: h, Redis: rdb, PageDefault: pageDefault, PageMaxLimit: pageMax}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	writeLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), middleware.SkipSafeMethods())
	likeLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil)

	posts := rg.Group("/posts")
	posts.GET("", middleware.Pagination(m.PageDefault, m.PageMaxLimit), m.Handler.List)
	posts.GET("/:id", m.Handler.Get)
	posts.GET("/:id/comments", m.Handler.ListComments)
	posts.POST("/:id/like", likeLimiter, m.Handler.Like)

	owned := posts.Group("", writeLimiter)
	owned.POST("", m.Handler.Create)
	owned.PATCH("/:id", m.Handler.Update)
	owned.DELETE("/:id", m.Handler.Delete)

	rg.GET("/search/posts", m.Handler.Search)
}
