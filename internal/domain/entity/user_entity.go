package entity

import (
	"time"
)

// Role is the authorization role stored on a user row.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the aggregate root for the user domain.
// Password holds a bcrypt hash and never leaves the application layer.
type User struct {
	ID          int64
	Name        string
	Email       string
	PhoneNumber string
	Password    string
	Description string
	AvatarURL   string
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// Actor is the authenticated identity attached to a request.
// A nil *Actor means the request is anonymous.
type Actor struct {
	ID    int64
	Name  string
	Email string
	Role  Role
}
