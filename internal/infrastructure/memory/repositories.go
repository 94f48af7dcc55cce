package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

type userRepo struct{ view }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	return r.do(func(t *tables) error {
		for _, existing := range t.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return repository.ErrDuplicate
			}
		}
		t.userSeq++
		now := r.s.now()
		u.ID = t.userSeq
		u.CreatedAt, u.UpdatedAt = now, now
		if u.Role == "" {
			u.Role = entity.RoleUser
		}
		t.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.do(func(t *tables) error {
		u, ok := t.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.do(func(t *tables) error {
		for _, u := range t.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r userRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*entity.User, error) {
	out := make(map[int64]*entity.User, len(ids))
	err := r.do(func(t *tables) error {
		for _, id := range ids {
			if u, ok := t.users[id]; ok {
				out[id] = &u
			}
		}
		return nil
	})
	return out, err
}

func (r userRepo) List(_ context.Context, skip, take int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.do(func(t *tables) error {
		rows := make([]*entity.User, 0, len(t.users))
		for _, u := range t.users {
			u := u
			rows = append(rows, &u)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
		out = page(rows, skip, take)
		return nil
	})
	return out, err
}

func (r userRepo) Count(_ context.Context) (int, error) {
	var n int
	err := r.do(func(t *tables) error {
		n = len(t.users)
		return nil
	})
	return n, err
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	return r.do(func(t *tables) error {
		if _, ok := t.users[u.ID]; !ok {
			return repository.ErrNotFound
		}
		for id, existing := range t.users {
			if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
				return repository.ErrDuplicate
			}
		}
		u.UpdatedAt = r.s.now()
		t.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) Delete(_ context.Context, id int64) error {
	return r.do(func(t *tables) error {
		if _, ok := t.users[id]; !ok {
			return repository.ErrNotFound
		}
		t.deleteUser(id)
		return nil
	})
}

type postRepo struct{ view }

func (r postRepo) Create(_ context.Context, p *entity.Post) error {
	return r.do(func(t *tables) error {
		if _, ok := t.users[p.UserID]; !ok {
			return repository.ErrNotFound
		}
		t.postSeq++
		now := r.s.now()
		p.ID = t.postSeq
		p.CreatedAt, p.UpdatedAt = now, now
		t.posts[p.ID] = *p
		return nil
	})
}

func (r postRepo) GetByID(_ context.Context, id int64) (*entity.Post, error) {
	var out *entity.Post
	err := r.do(func(t *tables) error {
		p, ok := t.posts[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r postRepo) matching(t *tables, search string) []*entity.Post {
	rows := make([]*entity.Post, 0, len(t.posts))
	for _, p := range t.posts {
		if search != "" && !strings.Contains(p.Title, search) {
			continue
		}
		p := p
		rows = append(rows, &p)
	}
	return rows
}

func (r postRepo) List(_ context.Context, f repository.PostFilter) ([]*entity.Post, error) {
	var out []*entity.Post
	err := r.do(func(t *tables) error {
		rows := r.matching(t, f.Search)
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
				return rows[i].ID > rows[j].ID
			}
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		})
		out = page(rows, f.Skip, f.Take)
		return nil
	})
	return out, err
}

func (r postRepo) Count(_ context.Context, search string) (int, error) {
	var n int
	err := r.do(func(t *tables) error {
		n = len(r.matching(t, search))
		return nil
	})
	return n, err
}

func (r postRepo) Update(_ context.Context, p *entity.Post) error {
	return r.do(func(t *tables) error {
		cur, ok := t.posts[p.ID]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Title = p.Title
		cur.Content = p.Content
		cur.UpdatedAt = r.s.now()
		t.posts[p.ID] = cur
		*p = cur
		return nil
	})
}

func (r postRepo) Delete(_ context.Context, id int64) error {
	return r.do(func(t *tables) error {
		if _, ok := t.posts[id]; !ok {
			return repository.ErrNotFound
		}
		t.deletePost(id)
		return nil
	})
}

type tagRepo struct{ view }

func (r tagRepo) ListByPost(_ context.Context, postID int64) ([]*entity.Tag, error) {
	var out []*entity.Tag
	err := r.do(func(t *tables) error {
		out = make([]*entity.Tag, 0)
		for _, tag := range t.tags {
			if tag.PostID == postID {
				tag := tag
				out = append(out, &tag)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r tagRepo) CreateMany(_ context.Context, postID int64, names []string) error {
	return r.do(func(t *tables) error {
		if _, ok := t.posts[postID]; !ok {
			return repository.ErrNotFound
		}
		for _, name := range names {
			t.tagSeq++
			t.tags[t.tagSeq] = entity.Tag{ID: t.tagSeq, Name: name, PostID: postID}
		}
		return nil
	})
}

func (r tagRepo) DeleteByPost(_ context.Context, postID int64) error {
	return r.do(func(t *tables) error {
		for id, tag := range t.tags {
			if tag.PostID == postID {
				delete(t.tags, id)
			}
		}
		return nil
	})
}

type commentRepo struct{ view }

func (r commentRepo) Create(_ context.Context, c *entity.Comment) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return r.do(func(t *tables) error {
		if _, ok := t.users[c.UserID]; !ok {
			return repository.ErrNotFound
		}
		if c.PostID != nil {
			if _, ok := t.posts[*c.PostID]; !ok {
				return repository.ErrNotFound
			}
		}
		if c.ParentID != nil {
			if _, ok := t.comments[*c.ParentID]; !ok {
				return repository.ErrNotFound
			}
		}
		t.commentSeq++
		now := r.s.now()
		c.ID = t.commentSeq
		c.CreatedAt, c.UpdatedAt = now, now
		t.comments[c.ID] = copyComment(*c)
		return nil
	})
}

func (r commentRepo) GetByID(_ context.Context, id int64) (*entity.Comment, error) {
	var out *entity.Comment
	err := r.do(func(t *tables) error {
		c, ok := t.comments[id]
		if !ok {
			return repository.ErrNotFound
		}
		c = copyComment(c)
		out = &c
		return nil
	})
	return out, err
}

func sortComments(rows []*entity.Comment) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
}

func (r commentRepo) ListByPost(_ context.Context, postID int64) ([]*entity.Comment, error) {
	var out []*entity.Comment
	err := r.do(func(t *tables) error {
		out = make([]*entity.Comment, 0)
		for _, c := range t.comments {
			if c.PostID != nil && *c.PostID == postID {
				c = copyComment(c)
				out = append(out, &c)
			}
		}
		sortComments(out)
		return nil
	})
	return out, err
}

func (r commentRepo) ListChildren(_ context.Context, parentIDs []int64) ([]*entity.Comment, error) {
	want := make(map[int64]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		want[id] = struct{}{}
	}
	var out []*entity.Comment
	err := r.do(func(t *tables) error {
		out = make([]*entity.Comment, 0)
		for _, c := range t.comments {
			if c.ParentID == nil {
				continue
			}
			if _, ok := want[*c.ParentID]; ok {
				c = copyComment(c)
				out = append(out, &c)
			}
		}
		sortComments(out)
		return nil
	})
	return out, err
}

func (r commentRepo) Update(_ context.Context, c *entity.Comment) error {
	return r.do(func(t *tables) error {
		cur, ok := t.comments[c.ID]
		if !ok {
			return repository.ErrNotFound
		}
		cur.Content = c.Content
		cur.UpdatedAt = r.s.now()
		t.comments[c.ID] = cur
		*c = copyComment(cur)
		return nil
	})
}

func (r commentRepo) Delete(_ context.Context, id int64) error {
	return r.do(func(t *tables) error {
		if _, ok := t.comments[id]; !ok {
			return repository.ErrNotFound
		}
		t.deleteComment(id)
		return nil
	})
}

type likeRepo struct{ view }

func (r likeRepo) Exists(_ context.Context, userID, postID int64) (bool, error) {
	var ok bool
	err := r.do(func(t *tables) error {
		_, ok = t.likes[likeKey{userID, postID}]
		return nil
	})
	return ok, err
}

func (r likeRepo) Create(_ context.Context, userID, postID int64) error {
	return r.do(func(t *tables) error {
		if _, ok := t.users[userID]; !ok {
			return repository.ErrNotFound
		}
		if _, ok := t.posts[postID]; !ok {
			return repository.ErrNotFound
		}
		k := likeKey{userID, postID}
		if _, ok := t.likes[k]; ok {
			return nil
		}
		t.likes[k] = entity.PostLike{UserID: userID, PostID: postID, CreatedAt: r.s.now()}
		return nil
	})
}

func (r likeRepo) Delete(_ context.Context, userID, postID int64) error {
	return r.do(func(t *tables) error {
		delete(t.likes, likeKey{userID, postID})
		return nil
	})
}

func (r likeRepo) CountByPost(_ context.Context, postID int64) (int, error) {
	var n int
	err := r.do(func(t *tables) error {
		for k := range t.likes {
			if k.postID == postID {
				n++
			}
		}
		return nil
	})
	return n, err
}
