// Package memory is an in-process relational store: one table per entity,
// keyed by id, with foreign keys and cascades enforced on write.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

type likeKey struct {
	userID int64
	postID int64
}

type tables struct {
	userSeq, postSeq, tagSeq, commentSeq int64

	users    map[int64]entity.User
	posts    map[int64]entity.Post
	tags     map[int64]entity.Tag
	comments map[int64]entity.Comment
	likes    map[likeKey]entity.PostLike
}

func newTables() *tables {
	return &tables{
		users:    map[int64]entity.User{},
		posts:    map[int64]entity.Post{},
		tags:     map[int64]entity.Tag{},
		comments: map[int64]entity.Comment{},
		likes:    map[likeKey]entity.PostLike{},
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		userSeq:    t.userSeq,
		postSeq:    t.postSeq,
		tagSeq:     t.tagSeq,
		commentSeq: t.commentSeq,
		users:      make(map[int64]entity.User, len(t.users)),
		posts:      make(map[int64]entity.Post, len(t.posts)),
		tags:       make(map[int64]entity.Tag, len(t.tags)),
		comments:   make(map[int64]entity.Comment, len(t.comments)),
		likes:      make(map[likeKey]entity.PostLike, len(t.likes)),
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.posts {
		c.posts[k] = v
	}
	for k, v := range t.tags {
		c.tags[k] = v
	}
	for k, v := range t.comments {
		c.comments[k] = copyComment(v)
	}
	for k, v := range t.likes {
		c.likes[k] = v
	}
	return c
}

// Store implements repository.Store in memory. It is safe for concurrent use;
// WithinTx holds the store lock for the whole callback.
type Store struct {
	mu  sync.Mutex
	t   *tables
	now func() time.Time
}

func NewStore() *Store {
	return &Store{t: newTables(), now: time.Now}
}

// SetClock replaces the timestamp source. Used by tests that need a stable order.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

type view struct {
	s    *Store
	inTx bool
}

func (v view) do(fn func(t *tables) error) error {
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(v.s.t)
}

func (v view) Users() repository.UserRepository       { return userRepo{v} }
func (v view) Posts() repository.PostRepository       { return postRepo{v} }
func (v view) Tags() repository.TagRepository         { return tagRepo{v} }
func (v view) Comments() repository.CommentRepository { return commentRepo{v} }
func (v view) Likes() repository.LikeRepository       { return likeRepo{v} }

func (s *Store) Users() repository.UserRepository       { return view{s: s}.Users() }
func (s *Store) Posts() repository.PostRepository       { return view{s: s}.Posts() }
func (s *Store) Tags() repository.TagRepository         { return view{s: s}.Tags() }
func (s *Store) Comments() repository.CommentRepository { return view{s: s}.Comments() }
func (s *Store) Likes() repository.LikeRepository       { return view{s: s}.Likes() }

// WithinTx snapshots the tables and restores them if fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.t.clone()
	if err := fn(view{s: s, inTx: true}); err != nil {
		s.t = snapshot
		return err
	}
	return nil
}

func copyComment(c entity.Comment) entity.Comment {
	if c.PostID != nil {
		id := *c.PostID
		c.PostID = &id
	}
	if c.ParentID != nil {
		id := *c.ParentID
		c.ParentID = &id
	}
	return c
}

// cascade helpers, called with the lock held

func (t *tables) deleteComment(id int64) {
	for cid, c := range t.comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(t.comments, cid)
		}
	}
	delete(t.comments, id)
}

func (t *tables) deletePost(id int64) {
	for tid, tag := range t.tags {
		if tag.PostID == id {
			delete(t.tags, tid)
		}
	}
	for cid, c := range t.comments {
		if c.PostID != nil && *c.PostID == id {
			t.deleteComment(cid)
		}
	}
	for k := range t.likes {
		if k.postID == id {
			delete(t.likes, k)
		}
	}
	delete(t.posts, id)
}

func (t *tables) deleteUser(id int64) {
	for pid, p := range t.posts {
		if p.UserID == id {
			t.deletePost(pid)
		}
	}
	for cid, c := range t.comments {
		if c.UserID == id {
			t.deleteComment(cid)
		}
	}
	for k := range t.likes {
		if k.userID == id {
			delete(t.likes, k)
		}
	}
	delete(t.users, id)
}

func page[T any](rows []T, skip, take int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(rows) {
		return []T{}
	}
	rows = rows[skip:]
	if take > 0 && take < len(rows) {
		rows = rows[:take]
	}
	return rows
}

var _ repository.Store = (*Store)(nil)
