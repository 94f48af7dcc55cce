package application

import (
	"time"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
)

type UserSummary struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// UserProfile is the public shape of a user. The password hash never leaves the service.
type UserProfile struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Description string    `json:"description"`
	AvatarURL   string    `json:"avatarUrl"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TagView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CommentView struct {
	ID        int64         `json:"id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Author    UserSummary   `json:"author"`
	PostID    *int64        `json:"postId,omitempty"`
	ParentID  *int64        `json:"parentId,omitempty"`
	Children  []CommentView `json:"children,omitempty"`
}

type PostSummary struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	Author    UserSummary `json:"author"`
}

type PostView struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Author    UserSummary   `json:"author"`
	Tags      []TagView     `json:"tags"`
	Comments  []CommentView `json:"comments"`
	LikeCount int           `json:"likeCount"`
	IsLiked   bool          `json:"isLiked"`
}

// LikeState is the outcome of a like toggle.
type LikeState struct {
	PostID    int64 `json:"postId"`
	Liked     bool  `json:"isLiked"`
	LikeCount int   `json:"likeCount"`
}

func NewUserSummary(u *entity.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

func NewUserProfile(u *entity.User) UserProfile {
	return UserProfile{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Description: u.Description,
		AvatarURL:   u.AvatarURL,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func NewUserProfiles(users []*entity.User) []UserProfile {
	out := make([]UserProfile, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserProfile(u))
	}
	return out
}

// authorOf falls back to a bare id when the author row is gone.
func authorOf(users map[int64]*entity.User, id int64) UserSummary {
	if u, ok := users[id]; ok {
		return NewUserSummary(u)
	}
	return UserSummary{ID: id}
}

func NewTagViews(tags []*entity.Tag) []TagView {
	out := make([]TagView, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagView{ID: t.ID, Name: t.Name})
	}
	return out
}

func newCommentView(c *entity.Comment, users map[int64]*entity.User) CommentView {
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Author:    authorOf(users, c.UserID),
		PostID:    c.PostID,
		ParentID:  c.ParentID,
	}
}

func NewCommentView(c *entity.Comment, author *entity.User) CommentView {
	users := map[int64]*entity.User{}
	if author != nil {
		users[author.ID] = author
	}
	return newCommentView(c, users)
}

// NewCommentTree nests children under their top-level parent, keeping input order.
func NewCommentTree(top, children []*entity.Comment, users map[int64]*entity.User) []CommentView {
	byParent := make(map[int64][]CommentView, len(top))
	for _, c := range children {
		if c.ParentID == nil {
			continue
		}
		byParent[*c.ParentID] = append(byParent[*c.ParentID], newCommentView(c, users))
	}
	out := make([]CommentView, 0, len(top))
	for _, c := range top {
		v := newCommentView(c, users)
		v.Children = byParent[c.ID]
		out = append(out, v)
	}
	return out
}

func NewPostSummary(p *entity.Post, users map[int64]*entity.User) PostSummary {
	return PostSummary{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		Author:    authorOf(users, p.UserID),
	}
}

func NewPostView(p *entity.Post, tags []*entity.Tag, comments []CommentView, users map[int64]*entity.User, likeCount int, isLiked bool) PostView {
	if comments == nil {
		comments = []CommentView{}
	}
	return PostView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Author:    authorOf(users, p.UserID),
		Tags:      NewTagViews(tags),
		Comments:  comments,
		LikeCount: likeCount,
		IsLiked:   isLiked,
	}
}
