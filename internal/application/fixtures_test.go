package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/memory"
)

type fixture struct {
	store    *memory.Store
	users    *UserService
	posts    *PostService
	comments *CommentService
	notes    *recordingNotifier
	index    *fakeIndex
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	logger := quietLogger()
	notes := &recordingNotifier{}
	index := newFakeIndex()

	users := NewUserService(store, bcrypt.MinCost, logger)
	users.Search = index
	posts := NewPostService(store, logger)
	posts.Notifier = notes
	posts.Search = index
	comments := NewCommentService(store, logger)
	comments.Notifier = notes

	return &fixture{store: store, users: users, posts: posts, comments: comments, notes: notes, index: index}
}

func (f *fixture) signup(t *testing.T, name, email string) *entity.Actor {
	t.Helper()
	id, err := f.users.Create(context.Background(), CreateUserInput{Name: name, Email: email, Password: "password123"})
	require.NoError(t, err)
	return &entity.Actor{ID: id, Name: name, Email: email, Role: entity.RoleUser}
}

func (f *fixture) post(t *testing.T, actor *entity.Actor, title string, tags ...string) int64 {
	t.Helper()
	id, err := f.posts.Create(context.Background(), CreatePostInput{Title: title, Content: "body of " + title, Tags: tags}, actor)
	require.NoError(t, err)
	return id
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Activity
}

func (n *recordingNotifier) Notify(_ context.Context, a Activity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, a)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, a := range n.sent {
		out = append(out, a.Type)
	}
	return out
}

// fakeIndex is a SearchIndex keeping documents in maps; search is "title/name equals q".
type fakeIndex struct {
	mu    sync.Mutex
	posts map[int64]string
	users map[int64]string
	fail  bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{posts: map[int64]string{}, users: map[int64]string{}}
}

var errIndexDown = errors.New("index down")

func (f *fakeIndex) IndexPost(_ context.Context, p *entity.Post, _ []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errIndexDown
	}
	f.posts[p.ID] = p.Title
	return nil
}

func (f *fakeIndex) DeletePost(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.posts, id)
	return nil
}

func (f *fakeIndex) SearchPosts(_ context.Context, q string, _ int) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int64
	for id, title := range f.posts {
		if title == q {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeIndex) IndexUser(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errIndexDown
	}
	f.users[u.ID] = u.Name
	return nil
}

func (f *fakeIndex) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeIndex) SearchUsers(_ context.Context, q string, _ int) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int64
	for id, name := range f.users {
		if name == q {
			out = append(out, id)
		}
	}
	return out, nil
}
