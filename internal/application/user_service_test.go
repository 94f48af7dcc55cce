package application

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-blog/pkg/apperror"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

func TestUserService_CreateHashesAndRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.users.Create(ctx, CreateUserInput{Name: "Ann", Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)

	u, err := f.users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "password123"))
	assert.Equal(t, "user", string(u.Role))
	assert.Equal(t, "Ann", f.index.users[id])

	_, err = f.users.Create(ctx, CreateUserInput{Name: "Ann 2", Email: "ANN@example.com", Password: "password123"})
	assert.True(t, apperror.Is(err, apperror.Conflict))
}

func TestUserService_FindByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "Ann", "ann@example.com")

	u, found, err := f.users.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ann", u.Name)

	u, found, err = f.users.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, u)
}

func TestUserService_UpdateRehashesPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := f.signup(t, "Ann", "ann@example.com")
	before, err := f.users.GetByID(ctx, actor.ID)
	require.NoError(t, err)

	name, pwd := "Annie", "new-password"
	u, err := f.users.Update(ctx, actor.ID, UpdateUserInput{Name: &name, Password: &pwd})
	require.NoError(t, err)
	assert.Equal(t, "Annie", u.Name)
	assert.NotEqual(t, before.Password, u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "new-password"))
	assert.NotContains(t, u.Password, "new-password")

	empty := ""
	u, err = f.users.Update(ctx, actor.ID, UpdateUserInput{Password: &empty})
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "new-password"), "empty password keeps the hash")

	_, err = f.users.Update(ctx, 999, UpdateUserInput{Name: &name})
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

func TestUserService_UpdateEmailConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "Ann", "ann@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")

	taken := "ann@example.com"
	_, err := f.users.Update(ctx, bob.ID, UpdateUserInput{Email: &taken})
	assert.True(t, apperror.Is(err, apperror.Conflict))
}

func TestUserService_ListAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.signup(t, "Ann", "ann@example.com")
	f.signup(t, "Bob", "bob@example.com")
	f.signup(t, "Cid", "cid@example.com")

	users, total, err := f.users.List(ctx, Page{Skip: 1, Take: 1})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].Name)
	assert.Equal(t, 3, total)

	require.NoError(t, f.users.Delete(ctx, ann.ID))
	_, err = f.users.GetByID(ctx, ann.ID)
	assert.True(t, apperror.Is(err, apperror.NotFound))
	assert.NotContains(t, f.index.users, ann.ID)

	err = f.users.Delete(ctx, ann.ID)
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

type memoryObjects struct {
	path, contentType string
	body              []byte
}

func (m *memoryObjects) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.path, m.contentType, m.body = objectPath, contentType, b
	return "https://storage.googleapis.com/bucket/" + objectPath, nil
}

func TestUserService_UploadAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.signup(t, "Ann", "ann@example.com")

	_, err := f.users.UploadAvatar(ctx, ann.ID, bytes.NewReader(nil), "a.png", "image/png")
	assert.True(t, apperror.Is(err, apperror.Unexpected), "storage not configured")

	objects := &memoryObjects{}
	f.users.Avatars = objects

	_, err = f.users.UploadAvatar(ctx, ann.ID, strings.NewReader("x"), "a.txt", "text/plain")
	assert.True(t, apperror.Is(err, apperror.ValidationFailed))

	u, err := f.users.UploadAvatar(ctx, ann.ID, strings.NewReader("png-bytes"), "Me.PNG", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(objects.path, "avatars/1/"))
	assert.True(t, strings.HasSuffix(objects.path, ".png"))
	assert.Equal(t, []byte("png-bytes"), objects.body)
	assert.Equal(t, "https://storage.googleapis.com/bucket/"+objects.path, u.AvatarURL)

	stored, err := f.users.GetByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, u.AvatarURL, stored.AvatarURL)
}

func TestUserService_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.signup(t, "Ann", "ann@example.com")
	f.signup(t, "Bob", "bob@example.com")

	users, err := f.users.Search(ctx, "Ann", 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, ann.ID, users[0].ID)
}
