package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/container"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-ddd-blog/internal/interface/http"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-blog/internal/router/modules"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
	"github.com/oksasatya/go-ddd-blog/pkg/response"
)

// Deps is everything the HTTP modules need. Search, Avatars and Notifier are optional.
type Deps struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Store    repo.Store
	Redis    *redis.Client
	JWT      *helpers.JWTManager
	Search   application.SearchIndex
	Avatars  application.ObjectStorage
	Notifier application.Notifier
}

// Services groups the application services built from Deps.
type Services struct {
	Users    *application.UserService
	Auth     *application.AuthService
	Posts    *application.PostService
	Comments *application.CommentService
}

func BuildServices(d Deps) Services {
	var sessions application.SessionStore
	if d.Redis != nil {
		sessions = helpers.NewSessionStore(d.Redis, d.Config.RefreshTTL)
	}

	users := application.NewUserService(d.Store, d.Config.PasswordBcryptCost, d.Logger)
	users.Search = d.Search
	users.Avatars = d.Avatars
	users.Sessions = sessions

	posts := application.NewPostService(d.Store, d.Logger)
	posts.Search = d.Search
	posts.Notifier = d.Notifier

	comments := application.NewCommentService(d.Store, d.Logger)
	comments.Notifier = d.Notifier

	return Services{
		Users:    users,
		Auth:     application.NewAuthService(users, d.JWT, sessions, d.Logger),
		Posts:    posts,
		Comments: comments,
	}
}

// Mount builds services and handlers from d and adds every module to r.
func Mount(r *Registry, d Deps) Services {
	svc := BuildServices(d)
	cfg := d.Config

	r.Use(middleware.Authenticate(svc.Auth, d.Logger))

	r.Add(ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/healthz", func(c *gin.Context) {
			if d.Redis != nil {
				if err := d.Redis.Ping(c.Request.Context()).Err(); err != nil {
					response.Fail(c, http.StatusServiceUnavailable, "redis unavailable", nil)
					return
				}
			}
			response.OK(c, http.StatusOK, gin.H{"status": "ok"}, "healthy", nil)
		})
	}))

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, d.Logger, cfg.CookieDomain, cfg.CookieSecure), d.Redis))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, d.Logger), d.Redis, cfg.PageDefaultLimit, cfg.PageMaxLimit))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(svc.Posts, svc.Comments, d.Logger), d.Redis, cfg.PageDefaultLimit, cfg.PageMaxLimit))
	r.Add(modules.NewCommentModule(handlers.NewCommentHandler(svc.Comments, d.Logger), d.Redis))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(d.Redis))
	}
	return svc
}

func depsFromContainer() Deps {
	cfg := container.GetConfig()
	d := Deps{
		Config: cfg,
		Logger: container.GetLogger(),
		Store:  container.GetStore(),
		Redis:  container.GetRedis(),
		JWT:    container.GetJWT(),
	}
	if es := container.GetES(); es != nil {
		d.Search = search.NewIndex(es, cfg.ESPostsIndex, cfg.ESUsersIndex)
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		d.Avatars = &helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket, CacheControl: "public, max-age=3600"}
	}
	if pub := container.GetRabbitPub(); pub != nil {
		d.Notifier = application.NewQueueNotifier(pub, cfg, d.Logger)
	}
	return d
}

// InitModules initializes all application modules and registers them with the router registry.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	Mount(r, depsFromContainer())
}
