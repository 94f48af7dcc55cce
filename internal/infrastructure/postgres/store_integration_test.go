package postgres

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

// setupStore connects to TEST_DATABASE_URL and resets the schema.
// Tests skip when no database is configured.
func setupStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration tests")
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	require.NoError(t, RunMigrations(dsn, "../../../db/migrations", logger))

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, PoolOptions{MaxConns: 4, MinConns: 1, MaxConnLifetime: time.Minute})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE post_likes, comments, tags, posts, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return NewStore(pool)
}

func TestStore_LikeAndCascade(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	a := &entity.User{Name: "A", Email: "a@example.com", Password: "x"}
	b := &entity.User{Name: "B", Email: "b@example.com", Password: "x"}
	require.NoError(t, s.Users().Create(ctx, a))
	require.NoError(t, s.Users().Create(ctx, b))
	assert.ErrorIs(t, s.Users().Create(ctx, &entity.User{Name: "dup", Email: "A@example.com", Password: "x"}), repository.ErrDuplicate)

	p := &entity.Post{Title: "Hello", Content: "world", UserID: a.ID}
	require.NoError(t, s.Posts().Create(ctx, p))
	require.NoError(t, s.Tags().CreateMany(ctx, p.ID, []string{"go", "sql"}))

	require.NoError(t, s.Likes().Create(ctx, b.ID, p.ID))
	require.NoError(t, s.Likes().Create(ctx, b.ID, p.ID))
	n, err := s.Likes().CountByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	top := entity.NewTopLevelComment("nice post", a.ID, p.ID)
	require.NoError(t, s.Comments().Create(ctx, top))
	child := entity.NewChildComment("thanks", b.ID, top.ID)
	require.NoError(t, s.Comments().Create(ctx, child))

	hits, err := s.Posts().List(ctx, repository.PostFilter{Search: "Hel", Take: 10})
	require.NoError(t, err)
	require.Len(t, hits, 1)

	require.NoError(t, s.Posts().Delete(ctx, p.ID))
	_, err = s.Comments().GetByID(ctx, child.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	tags, err := s.Tags().ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	a := &entity.User{Name: "A", Email: "a@example.com", Password: "x"}
	require.NoError(t, s.Users().Create(ctx, a))
	p := &entity.Post{Title: "Hello", Content: "world", UserID: a.ID}
	require.NoError(t, s.Posts().Create(ctx, p))
	require.NoError(t, s.Tags().CreateMany(ctx, p.ID, []string{"old"}))

	err := s.WithinTx(ctx, func(tx repository.Repositories) error {
		if err := tx.Tags().DeleteByPost(ctx, p.ID); err != nil {
			return err
		}
		return tx.Tags().CreateMany(ctx, 999999, []string{"orphan"})
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	tags, err := s.Tags().ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "old", tags[0].Name)
}
