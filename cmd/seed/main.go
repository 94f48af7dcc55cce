package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	pginfra "github.com/oksasatya/go-ddd-blog/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

type seedUser struct {
	name, email, password string
	role                  entity.Role
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptionsFrom(cfg))
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	store := pginfra.NewStore(pool)
	users := application.NewUserService(store, cfg.PasswordBcryptCost, logger)
	posts := application.NewPostService(store, logger)
	comments := application.NewCommentService(store, logger)

	admin := ensureUser(ctx, users, logger, seedUser{"Admin", "admin@example.com", "password123", entity.RoleAdmin})
	reader := ensureUser(ctx, users, logger, seedUser{"Demo Reader", "reader@example.com", "password123", entity.RoleUser})

	_, existing, err := posts.List(ctx, application.Page{Take: 1}, "Welcome")
	if err != nil {
		log.Fatalf("failed to list posts: %v", err)
	}
	if existing > 0 {
		logger.Info("welcome post already present, skipping content seed")
		return
	}

	postID, err := posts.Create(ctx, application.CreatePostInput{
		Title:   "Welcome to the blog",
		Content: "First post. Comment, reply and like to try the API.",
		Tags:    []string{"announcement", "golang"},
	}, admin)
	if err != nil {
		log.Fatalf("failed to seed post: %v", err)
	}
	topID, err := comments.CreateTopLevel(ctx, "Glad to be here!", reader, postID)
	if err != nil {
		log.Fatalf("failed to seed comment: %v", err)
	}
	if _, err := comments.CreateChild(ctx, "Welcome aboard.", admin, topID); err != nil {
		log.Fatalf("failed to seed reply: %v", err)
	}
	if _, err := posts.SetLike(ctx, reader, postID, true); err != nil {
		log.Fatalf("failed to seed like: %v", err)
	}
	helpers.LogInfo(logger, "seeded content", logrus.Fields{"post_id": postID, "comment_id": topID})
}

func ensureUser(ctx context.Context, users *application.UserService, logger *logrus.Logger, su seedUser) *entity.Actor {
	u, found, err := users.FindByEmail(ctx, su.email)
	if err != nil {
		log.Fatalf("failed to look up %s: %v", su.email, err)
	}
	if !found {
		id, err := users.Create(ctx, application.CreateUserInput{
			Name:     su.name,
			Email:    su.email,
			Password: su.password,
			Role:     su.role,
		})
		if err != nil {
			log.Fatalf("failed to seed %s: %v", su.email, err)
		}
		if u, err = users.GetByID(ctx, id); err != nil {
			log.Fatalf("failed to reload %s: %v", su.email, err)
		}
		helpers.LogInfo(logger, "seeded user", logrus.Fields{"id": id, "email": su.email, "role": su.role})
	}
	return &entity.Actor{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
