package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

const commentColumns = `id, content, user_id, post_id, parent_id, created_at, updated_at`

type CommentRepository struct {
	q querier
}

func scanComment(row pgx.Row) (*entity.Comment, error) {
	c := &entity.Comment{}
	if err := row.Scan(&c.ID, &c.Content, &c.UserID, &c.PostID, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func collectComments(rows pgx.Rows, err error) ([]*entity.Comment, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*entity.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	if err := c.Validate(); err != nil {
		return err
	}
	row := r.q.QueryRow(ctx, `
		INSERT INTO comments (content, user_id, post_id, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, c.Content, c.UserID, c.PostID, c.ParentID)
	return translate(row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt))
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*entity.Comment, error) {
	return scanComment(r.q.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*entity.Comment, error) {
	return collectComments(r.q.Query(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE post_id = $1
		ORDER BY created_at, id
	`, postID))
}

func (r *CommentRepository) ListChildren(ctx context.Context, parentIDs []int64) ([]*entity.Comment, error) {
	if len(parentIDs) == 0 {
		return []*entity.Comment{}, nil
	}
	return collectComments(r.q.Query(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE parent_id = ANY($1)
		ORDER BY created_at, id
	`, parentIDs))
}

func (r *CommentRepository) Update(ctx context.Context, c *entity.Comment) error {
	row := r.q.QueryRow(ctx, `
		UPDATE comments SET content = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+commentColumns, c.Content, c.ID)
	updated, err := scanComment(row)
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
