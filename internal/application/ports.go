package application

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-blog/pkg/apperror"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

// Page is a skip/take window. Take <= 0 means no limit.
type Page struct {
	Skip int
	Take int
}

// SearchIndex mirrors posts and users into a full-text index. Implementations
// are best-effort: callers log failures and carry on.
type SearchIndex interface {
	IndexPost(ctx context.Context, p *entity.Post, tags []string) error
	DeletePost(ctx context.Context, id int64) error
	SearchPosts(ctx context.Context, q string, size int) ([]int64, error)
	IndexUser(ctx context.Context, u *entity.User) error
	DeleteUser(ctx context.Context, id int64) error
	SearchUsers(ctx context.Context, q string, size int) ([]int64, error)
}

// ObjectStorage stores uploaded files and returns their public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// SessionStore keeps the server side of a login.
type SessionStore interface {
	Save(ctx context.Context, sess helpers.Session) error
	Get(ctx context.Context, userID int64) (helpers.Session, error)
	Rotate(ctx context.Context, userID int64, sid string) error
	UpdateProfile(ctx context.Context, userID int64, name, email string) error
	Delete(ctx context.Context, userID int64) error
}

// lookup maps a store miss to NotFound and anything else to Unexpected.
func lookup(err error, resource string, id any) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperror.NewNotFound(resource, id)
	}
	return apperror.Wrap(err, "load "+strings.ToLower(resource))
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return apperror.NewValidation(field + " must not be empty")
	}
	return nil
}
