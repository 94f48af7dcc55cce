package postgres

import (
	"context"

	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

type LikeRepository struct {
	q querier
}

func (r *LikeRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM post_likes WHERE user_id = $1 AND post_id = $2)
	`, userID, postID).Scan(&ok)
	return ok, err
}

// Create relies on the (user_id, post_id) primary key so concurrent likes never duplicate.
func (r *LikeRepository) Create(ctx context.Context, userID, postID int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO post_likes (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`, userID, postID)
	return translate(err)
}

func (r *LikeRepository) Delete(ctx context.Context, userID, postID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	return err
}

func (r *LikeRepository) CountByPost(ctx context.Context, postID int64) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&n)
	return n, err
}

var _ repository.LikeRepository = (*LikeRepository)(nil)
