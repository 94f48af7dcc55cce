package entity

import "time"

// Post is owned by UserID. Tags, comments and likes reference it by PostID.
type Post struct {
	ID        int64
	Title     string
	Content   string
	UserID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tag belongs to exactly one post; names are not shared across posts.
type Tag struct {
	ID     int64
	Name   string
	PostID int64
}

// PostLike exists iff UserID likes PostID.
type PostLike struct {
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}
