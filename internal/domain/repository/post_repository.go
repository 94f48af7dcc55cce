package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
)

// PostFilter selects posts whose title contains Search. Empty Search matches all.
type PostFilter struct {
	Search string
	Skip   int
	Take   int
}

// PostRepository lists newest first and deletes with cascade to tags, comments and likes.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id int64) (*entity.Post, error)
	List(ctx context.Context, f PostFilter) ([]*entity.Post, error)
	Count(ctx context.Context, search string) (int, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id int64) error
}

type TagRepository interface {
	ListByPost(ctx context.Context, postID int64) ([]*entity.Tag, error)
	CreateMany(ctx context.Context, postID int64, names []string) error
	DeleteByPost(ctx context.Context, postID int64) error
}
