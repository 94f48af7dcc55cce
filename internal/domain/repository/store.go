package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Repositories groups the per-aggregate repositories sharing one connection or transaction.
type Repositories interface {
	Users() UserRepository
	Posts() PostRepository
	Tags() TagRepository
	Comments() CommentRepository
	Likes() LikeRepository
}

// Store is the relational store. WithinTx runs fn atomically: any error rolls back every write made through tx.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(tx Repositories) error) error
}
