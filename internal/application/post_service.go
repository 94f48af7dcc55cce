package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/domain/authz"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-blog/pkg/apperror"
	mailtpl "github.com/oksasatya/go-ddd-blog/pkg/mailer/templates"
)

type PostService struct {
	Store  repo.Store
	Logger *logrus.Logger

	// optional
	Search   SearchIndex
	Notifier Notifier
}

func NewPostService(store repo.Store, logger *logrus.Logger) *PostService {
	return &PostService{Store: store, Logger: logger}
}

type CreatePostInput struct {
	Title   string
	Content string
	Tags    []string
}

// UpdatePostInput: nil Title/Content keep the current value, nil Tags keeps
// the tag set, a non-nil Tags replaces it entirely.
type UpdatePostInput struct {
	Title   *string
	Content *string
	Tags    []string
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Get builds the full post view. actor may be nil; isLiked is then false.
func (s *PostService) Get(ctx context.Context, id int64, actor *entity.Actor) (*PostView, error) {
	p, err := s.Store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Post", id)
	}
	tags, err := s.Store.Tags().ListByPost(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "load tags")
	}
	top, children, users, err := loadThread(ctx, s.Store, id, p.UserID)
	if err != nil {
		return nil, err
	}
	count, err := s.Store.Likes().CountByPost(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "count likes")
	}
	liked := false
	if actor != nil {
		if liked, err = s.Store.Likes().Exists(ctx, actor.ID, id); err != nil {
			return nil, apperror.Wrap(err, "load like")
		}
	}
	view := NewPostView(p, tags, NewCommentTree(top, children, users), users, count, liked)
	return &view, nil
}

// loadThread reads the top-level comments of a post, their replies and every author involved.
func loadThread(ctx context.Context, store repo.Repositories, postID int64, extraUsers ...int64) ([]*entity.Comment, []*entity.Comment, map[int64]*entity.User, error) {
	top, err := store.Comments().ListByPost(ctx, postID)
	if err != nil {
		return nil, nil, nil, apperror.Wrap(err, "load comments")
	}
	parentIDs := make([]int64, 0, len(top))
	for _, c := range top {
		parentIDs = append(parentIDs, c.ID)
	}
	var children []*entity.Comment
	if len(parentIDs) > 0 {
		if children, err = store.Comments().ListChildren(ctx, parentIDs); err != nil {
			return nil, nil, nil, apperror.Wrap(err, "load replies")
		}
	}
	userIDs := append([]int64{}, extraUsers...)
	for _, c := range top {
		userIDs = append(userIDs, c.UserID)
	}
	for _, c := range children {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := store.Users().GetByIDs(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, nil, nil, apperror.Wrap(err, "load authors")
	}
	return top, children, users, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// List returns posts whose title contains search, newest first, plus the total match count.
func (s *PostService) List(ctx context.Context, page Page, search string) ([]PostSummary, int, error) {
	posts, err := s.Store.Posts().List(ctx, repo.PostFilter{Search: search, Skip: page.Skip, Take: page.Take})
	if err != nil {
		return nil, 0, apperror.Wrap(err, "list posts")
	}
	total, err := s.Store.Posts().Count(ctx, search)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "count posts")
	}
	out, err := s.summaries(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *PostService) summaries(ctx context.Context, posts []*entity.Post) ([]PostSummary, error) {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
	}
	users, err := s.Store.Users().GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, apperror.Wrap(err, "load authors")
	}
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostSummary(p, users))
	}
	return out, nil
}

// Search looks posts up in the full-text index and returns them in relevance order.
func (s *PostService) Search(ctx context.Context, q string, size int) ([]PostSummary, error) {
	if s.Search == nil || strings.TrimSpace(q) == "" {
		return []PostSummary{}, nil
	}
	ids, err := s.Search.SearchPosts(ctx, q, size)
	if err != nil {
		return nil, apperror.Wrap(err, "search posts")
	}
	posts := make([]*entity.Post, 0, len(ids))
	for _, id := range ids {
		p, err := s.Store.Posts().GetByID(ctx, id)
		if err != nil {
			continue // index lags behind deletes
		}
		posts = append(posts, p)
	}
	return s.summaries(ctx, posts)
}

func (s *PostService) Create(ctx context.Context, in CreatePostInput, actor *entity.Actor) (int64, error) {
	if err := authz.RequireActor(actor); err != nil {
		return 0, err
	}
	if err := requireText("title", in.Title); err != nil {
		return 0, err
	}
	if err := requireText("content", in.Content); err != nil {
		return 0, err
	}
	if _, err := s.Store.Users().GetByID(ctx, actor.ID); err != nil {
		return 0, lookup(err, "User", actor.ID)
	}
	p := &entity.Post{Title: in.Title, Content: in.Content, UserID: actor.ID}
	tags := normalizeTags(in.Tags)
	err := s.Store.WithinTx(ctx, func(tx repo.Repositories) error {
		if err := tx.Posts().Create(ctx, p); err != nil {
			return lookup(err, "User", actor.ID)
		}
		if len(tags) == 0 {
			return nil
		}
		return apperror.Wrap(tx.Tags().CreateMany(ctx, p.ID, tags), "create tags")
	})
	if err != nil {
		return 0, err
	}
	s.indexPost(ctx, p, tags)
	return p.ID, nil
}

// loadOwned fetches a post and checks the actor may modify it.
func (s *PostService) loadOwned(ctx context.Context, id int64, actor *entity.Actor) (*entity.Post, error) {
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}
	p, err := s.Store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Post", id)
	}
	if err := authz.RequireOwner(p.UserID, actor, "posts"); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) Update(ctx context.Context, id int64, in UpdatePostInput, actor *entity.Actor) error {
	p, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return err
	}
	if in.Title != nil {
		if err := requireText("title", *in.Title); err != nil {
			return err
		}
		p.Title = *in.Title
	}
	if in.Content != nil {
		if err := requireText("content", *in.Content); err != nil {
			return err
		}
		p.Content = *in.Content
	}
	var tags []string
	if in.Tags != nil {
		tags = normalizeTags(in.Tags)
	}
	err = s.Store.WithinTx(ctx, func(tx repo.Repositories) error {
		if err := tx.Posts().Update(ctx, p); err != nil {
			return lookup(err, "Post", id)
		}
		if in.Tags == nil {
			return nil
		}
		if err := tx.Tags().DeleteByPost(ctx, id); err != nil {
			return apperror.Wrap(err, "delete tags")
		}
		if len(tags) == 0 {
			return nil
		}
		return apperror.Wrap(tx.Tags().CreateMany(ctx, id, tags), "create tags")
	})
	if err != nil {
		return err
	}
	if s.Search != nil {
		if in.Tags == nil {
			current, err := s.Store.Tags().ListByPost(ctx, id)
			if err == nil {
				for _, t := range current {
					tags = append(tags, t.Name)
				}
			}
		}
		s.indexPost(ctx, p, tags)
	}
	return nil
}

func (s *PostService) Delete(ctx context.Context, id int64, actor *entity.Actor) error {
	if _, err := s.loadOwned(ctx, id, actor); err != nil {
		return err
	}
	if err := s.Store.Posts().Delete(ctx, id); err != nil {
		return lookup(err, "Post", id)
	}
	if s.Search != nil {
		if err := s.Search.DeletePost(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", id).Warn("es delete post failed")
		}
	}
	return nil
}

// SetLike moves the (actor, post) like to the wanted state. Repeating the
// same request is a no-op.
func (s *PostService) SetLike(ctx context.Context, actor *entity.Actor, postID int64, want bool) (LikeState, error) {
	if err := authz.RequireActor(actor); err != nil {
		return LikeState{}, err
	}
	if _, err := s.Store.Users().GetByID(ctx, actor.ID); err != nil {
		return LikeState{}, lookup(err, "User", actor.ID)
	}
	p, err := s.Store.Posts().GetByID(ctx, postID)
	if err != nil {
		return LikeState{}, lookup(err, "Post", postID)
	}

	state := LikeState{PostID: postID}
	created := false
	err = s.Store.WithinTx(ctx, func(tx repo.Repositories) error {
		liked, err := tx.Likes().Exists(ctx, actor.ID, postID)
		if err != nil {
			return apperror.Wrap(err, "load like")
		}
		switch {
		case want && !liked:
			if err := tx.Likes().Create(ctx, actor.ID, postID); err != nil {
				return lookup(err, "Post", postID)
			}
			created = true
		case !want && liked:
			if err := tx.Likes().Delete(ctx, actor.ID, postID); err != nil {
				return apperror.Wrap(err, "delete like")
			}
		}
		state.Liked = want
		state.LikeCount, err = tx.Likes().CountByPost(ctx, postID)
		return apperror.Wrap(err, "count likes")
	})
	if err != nil {
		return LikeState{}, err
	}

	switch {
	case created:
		likeToggles.Add("liked", 1)
		s.notifyOwner(ctx, p, actor)
	case want:
		likeToggles.Add("noop", 1)
	default:
		likeToggles.Add("unlike", 1)
	}
	return state, nil
}

func (s *PostService) notifyOwner(ctx context.Context, p *entity.Post, actor *entity.Actor) {
	if s.Notifier == nil || p.UserID == actor.ID {
		return
	}
	owner, err := s.Store.Users().GetByID(ctx, p.UserID)
	if err != nil {
		return
	}
	notify(ctx, s.Notifier, Activity{Type: mailtpl.PostLiked, Recipient: owner, Actor: actor, Post: p})
}

func (s *PostService) indexPost(ctx context.Context, p *entity.Post, tags []string) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexPost(ctx, p, tags); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("post_id", p.ID).Warn("es index post failed")
	}
}
