package entity

import (
	"errors"
	"time"
)

var ErrCommentAttachment = errors.New("comment must be attached to exactly one of post or parent comment")

// Comment is either top-level (PostID set) or a reply (ParentID set), never both.
type Comment struct {
	ID        int64
	Content   string
	UserID    int64
	PostID    *int64
	ParentID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewTopLevelComment(content string, userID, postID int64) *Comment {
	return &Comment{Content: content, UserID: userID, PostID: &postID}
}

func NewChildComment(content string, userID, parentID int64) *Comment {
	return &Comment{Content: content, UserID: userID, ParentID: &parentID}
}

func (c *Comment) IsTopLevel() bool { return c.PostID != nil && c.ParentID == nil }

func (c *Comment) IsChild() bool { return c.ParentID != nil && c.PostID == nil }

// Validate checks the attachment invariant.
func (c *Comment) Validate() error {
	if c.IsTopLevel() == c.IsChild() {
		return ErrCommentAttachment
	}
	return nil
}
