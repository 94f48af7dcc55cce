package repository

import "context"

// LikeRepository keeps at most one row per (user, post).
type LikeRepository interface {
	Exists(ctx context.Context, userID, postID int64) (bool, error)
	// Create is a no-op when the like already exists.
	Create(ctx context.Context, userID, postID int64) error
	Delete(ctx context.Context, userID, postID int64) error
	CountByPost(ctx context.Context, postID int64) (int, error)
}
