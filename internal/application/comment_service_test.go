package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-blog/pkg/apperror"
	mailtpl "github.com/oksasatya/go-ddd-blog/pkg/mailer/templates"
)

func TestCommentService_ThreadScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.signup(t, "A", "a@example.com")
	b := f.signup(t, "B", "b@example.com")
	postID := f.post(t, a, "Hello")

	topID, err := f.comments.CreateTopLevel(ctx, "nice post", a, postID)
	require.NoError(t, err)
	childID, err := f.comments.CreateChild(ctx, "thanks", b, topID)
	require.NoError(t, err)

	child, err := f.store.Comments().GetByID(ctx, childID)
	require.NoError(t, err)
	assert.Nil(t, child.PostID, "replies reach the post through their parent")
	assert.Equal(t, topID, *child.ParentID)

	view, err := f.posts.Get(ctx, postID, nil)
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "nice post", view.Comments[0].Content)
	assert.Equal(t, "A", view.Comments[0].Author.Name)
	require.Len(t, view.Comments[0].Children, 1)
	assert.Equal(t, "thanks", view.Comments[0].Children[0].Content)
	assert.Equal(t, "B", view.Comments[0].Children[0].Author.Name)

	require.NoError(t, f.comments.Delete(ctx, topID, a))

	_, err = f.store.Comments().GetByID(ctx, topID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.store.Comments().GetByID(ctx, childID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// A commenting on their own post is silent; B replying to A notifies A.
	assert.Equal(t, []string{mailtpl.ReplyCreated}, f.notes.types())
}

func TestCommentService_ChildUnderMissingParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.signup(t, "A", "a@example.com")
	postID := f.post(t, a, "Hello")

	_, err := f.comments.CreateChild(ctx, "orphan", a, 999)
	assert.True(t, apperror.Is(err, apperror.NotFound))
	assert.EqualError(t, err, "Comment with ID 999 not found")

	tree, err := f.comments.ListByPost(ctx, postID)
	require.NoError(t, err)
	assert.Empty(t, tree)
	_, err = f.store.Comments().GetByID(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound, "no row was created")
}

func TestCommentService_RepliesCannotNest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.signup(t, "A", "a@example.com")
	postID := f.post(t, a, "Hello")
	topID, err := f.comments.CreateTopLevel(ctx, "top", a, postID)
	require.NoError(t, err)
	childID, err := f.comments.CreateChild(ctx, "child", a, topID)
	require.NoError(t, err)

	_, err = f.comments.CreateChild(ctx, "grandchild", a, childID)
	assert.True(t, apperror.Is(err, apperror.ValidationFailed))
	assert.EqualError(t, err, "replies cannot be nested")
}

func TestCommentService_CreatePreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.signup(t, "A", "a@example.com")

	_, err := f.comments.CreateTopLevel(ctx, "x", nil, 1)
	assert.True(t, apperror.Is(err, apperror.Unauthenticated))

	_, err = f.comments.CreateTopLevel(ctx, "x", a, 999)
	assert.True(t, apperror.Is(err, apperror.NotFound))

	postID := f.post(t, a, "Hello")
	_, err = f.comments.CreateTopLevel(ctx, "   ", a, postID)
	assert.True(t, apperror.Is(err, apperror.ValidationFailed))
}

func TestCommentService_NonAuthorCannotMutate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.signup(t, "A", "a@example.com")
	b := f.signup(t, "B", "b@example.com")
	postID := f.post(t, a, "Hello")
	id, err := f.comments.CreateTopLevel(ctx, "mine", a, postID)
	require.NoError(t, err)

	_, err = f.comments.Update(ctx, id, "theirs", b)
	assert.True(t, apperror.Is(err, apperror.Forbidden))
	err = f.comments.Delete(ctx, id, b)
	assert.True(t, apperror.Is(err, apperror.Forbidden))
	_, err = f.comments.Update(ctx, id, "anon", nil)
	assert.True(t, apperror.Is(err, apperror.Unauthenticated))
	_, err = f.comments.Update(ctx, 999, "x", b)
	assert.True(t, apperror.Is(err, apperror.NotFound))

	c, err := f.store.Comments().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "mine", c.Content)

	updated, err := f.comments.Update(ctx, id, "edited", a)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, postID, *updated.PostID)
}

func TestCommentService_ListByPostMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.comments.ListByPost(context.Background(), 42)
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

func TestCommentService_NotifiesPostOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.signup(t, "A", "a@example.com")
	b := f.signup(t, "B", "b@example.com")
	postID := f.post(t, a, "Hello")

	_, err := f.comments.CreateTopLevel(ctx, "first!", b, postID)
	require.NoError(t, err)

	require.Len(t, f.notes.sent, 1)
	got := f.notes.sent[0]
	assert.Equal(t, mailtpl.CommentCreated, got.Type)
	assert.Equal(t, a.ID, got.Recipient.ID)
	assert.Equal(t, "first!", got.Content)
	assert.Equal(t, "Hello", got.Post.Title)
}
