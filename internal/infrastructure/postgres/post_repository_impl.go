package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

const postColumns = `id, title, content, user_id, created_at, updated_at`

type PostRepository struct {
	q querier
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO posts (title, content, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Content, p.UserID)
	return translate(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	return scanPost(r.q.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

// strpos keeps the filter a plain substring match without LIKE escaping.
const titleFilter = `($1 = '' OR strpos(title, $1) > 0)`

func (r *PostRepository) List(ctx context.Context, f repository.PostFilter) ([]*entity.Post, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE `+titleFilter+`
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, f.Search, limitArg(f.Take), f.Skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := make([]*entity.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Count(ctx context.Context, search string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM posts WHERE `+titleFilter, search).Scan(&n)
	return n, err
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	row := r.q.QueryRow(ctx, `
		UPDATE posts SET title = $1, content = $2, updated_at = now()
		WHERE id = $3
		RETURNING `+postColumns, p.Title, p.Content, p.ID)
	updated, err := scanPost(row)
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type TagRepository struct {
	q querier
}

func (r *TagRepository) ListByPost(ctx context.Context, postID int64) ([]*entity.Tag, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, post_id FROM tags WHERE post_id = $1 ORDER BY id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := make([]*entity.Tag, 0)
	for rows.Next() {
		t := &entity.Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.PostID); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *TagRepository) CreateMany(ctx context.Context, postID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO tags (name, post_id)
		SELECT unnest($1::text[]), $2
	`, names, postID)
	return translate(err)
}

func (r *TagRepository) DeleteByPost(ctx context.Context, postID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM tags WHERE post_id = $1`, postID)
	return err
}

var (
	_ repository.PostRepository = (*PostRepository)(nil)
	_ repository.TagRepository  = (*TagRepository)(nil)
)
