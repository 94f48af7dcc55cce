package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/domain/authz"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-blog/pkg/apperror"
	mailtpl "github.com/oksasatya/go-ddd-blog/pkg/mailer/templates"
)

const msgNestedReply = "replies cannot be nested"

// CommentService manages the two-level comment tree.
type CommentService struct {
	Store    repo.Store
	Logger   *logrus.Logger
	Notifier Notifier
}

func NewCommentService(store repo.Store, logger *logrus.Logger) *CommentService {
	return &CommentService{Store: store, Logger: logger}
}

func (s *CommentService) requireAuthor(ctx context.Context, actor *entity.Actor) error {
	if err := authz.RequireActor(actor); err != nil {
		return err
	}
	if _, err := s.Store.Users().GetByID(ctx, actor.ID); err != nil {
		return lookup(err, "User", actor.ID)
	}
	return nil
}

// CreateTopLevel attaches a comment directly to a post.
func (s *CommentService) CreateTopLevel(ctx context.Context, content string, actor *entity.Actor, postID int64) (int64, error) {
	if err := s.requireAuthor(ctx, actor); err != nil {
		return 0, err
	}
	if err := requireText("content", content); err != nil {
		return 0, err
	}
	p, err := s.Store.Posts().GetByID(ctx, postID)
	if err != nil {
		return 0, lookup(err, "Post", postID)
	}
	c := entity.NewTopLevelComment(content, actor.ID, postID)
	if err := s.Store.Comments().Create(ctx, c); err != nil {
		return 0, lookup(err, "Post", postID)
	}
	if s.Notifier != nil {
		if owner, err := s.Store.Users().GetByID(ctx, p.UserID); err == nil {
			notify(ctx, s.Notifier, Activity{Type: mailtpl.CommentCreated, Recipient: owner, Actor: actor, Post: p, Content: content})
		}
	}
	return c.ID, nil
}

// CreateChild replies to a top-level comment. The reply stores no post id.
func (s *CommentService) CreateChild(ctx context.Context, content string, actor *entity.Actor, parentID int64) (int64, error) {
	if err := s.requireAuthor(ctx, actor); err != nil {
		return 0, err
	}
	if err := requireText("content", content); err != nil {
		return 0, err
	}
	parent, err := s.Store.Comments().GetByID(ctx, parentID)
	if err != nil {
		return 0, lookup(err, "Comment", parentID)
	}
	if !parent.IsTopLevel() {
		return 0, apperror.NewValidation(msgNestedReply)
	}
	c := entity.NewChildComment(content, actor.ID, parentID)
	if err := s.Store.Comments().Create(ctx, c); err != nil {
		return 0, lookup(err, "Comment", parentID)
	}
	if s.Notifier != nil {
		s.notifyParentAuthor(ctx, parent, actor, content)
	}
	return c.ID, nil
}

func (s *CommentService) notifyParentAuthor(ctx context.Context, parent *entity.Comment, actor *entity.Actor, content string) {
	author, err := s.Store.Users().GetByID(ctx, parent.UserID)
	if err != nil {
		return
	}
	p, err := s.Store.Posts().GetByID(ctx, *parent.PostID)
	if err != nil {
		return
	}
	notify(ctx, s.Notifier, Activity{Type: mailtpl.ReplyCreated, Recipient: author, Actor: actor, Post: p, Content: content})
}

func (s *CommentService) loadOwned(ctx context.Context, id int64, actor *entity.Actor) (*entity.Comment, error) {
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}
	c, err := s.Store.Comments().GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Comment", id)
	}
	if err := authz.RequireOwner(c.UserID, actor, "comments"); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the content only.
func (s *CommentService) Update(ctx context.Context, id int64, content string, actor *entity.Actor) (*entity.Comment, error) {
	c, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if err := requireText("content", content); err != nil {
		return nil, err
	}
	c.Content = content
	if err := s.Store.Comments().Update(ctx, c); err != nil {
		return nil, lookup(err, "Comment", id)
	}
	return c, nil
}

// Delete removes the comment and, for a top-level comment, its replies.
func (s *CommentService) Delete(ctx context.Context, id int64, actor *entity.Actor) error {
	if _, err := s.loadOwned(ctx, id, actor); err != nil {
		return err
	}
	if err := s.Store.Comments().Delete(ctx, id); err != nil {
		return lookup(err, "Comment", id)
	}
	return nil
}

// ListByPost returns the comment tree of a post.
func (s *CommentService) ListByPost(ctx context.Context, postID int64) ([]CommentView, error) {
	if _, err := s.Store.Posts().GetByID(ctx, postID); err != nil {
		return nil, lookup(err, "Post", postID)
	}
	top, children, users, err := loadThread(ctx, s.Store, postID)
	if err != nil {
		return nil, err
	}
	return NewCommentTree(top, children, users), nil
}
