package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id int64) (*entity.Comment, error)
	// ListByPost returns the top-level comments of a post, oldest first.
	ListByPost(ctx context.Context, postID int64) ([]*entity.Comment, error)
	// ListChildren returns the replies of the given parents, oldest first.
	ListChildren(ctx context.Context, parentIDs []int64) ([]*entity.Comment, error)
	Update(ctx context.Context, c *entity.Comment) error
	// Delete removes the comment and its replies.
	Delete(ctx context.Context, id int64) error
}
