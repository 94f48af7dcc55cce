package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ddd-blog/internal/interface/http"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
)

// UserModule exposes the user directory under /api/users.
type UserModule struct {
	Handler      *handlers.UserHandler
	Redis        *redis.Client
	PageDefault  int
	PageMaxLimit int
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client, pageDefault, pageMax int) *UserModule {
	return &UserModule{Handler: h, Redis: rdb, PageDefault: pageDefault, PageMaxLimit: pageMax}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// reads are free; writes share a per-user budget
	writeLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), middleware.SkipSafeMethods())
	uploadLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByUserID(), nil)

	users := rg.Group("/users", writeLimiter)
	users.GET("", middleware.Pagination(m.PageDefault, m.PageMaxLimit), m.Handler.List)
	users.GET("/search", m.Handler.Search)
	users.GET("/:id", m.Handler.Get)
	users.DELETE("/:id", m.Handler.Delete)

	me := users.Group("/me", middleware.RequireActor())
	{
		me.GET("", m.Handler.Me)
		me.PATCH("", m.Handler.UpdateMe)
		me.DELETE("", m.Handler.DeleteMe)
		me.POST("/avatar", uploadLimiter, m.Handler.UploadAvatar)
	}
}
