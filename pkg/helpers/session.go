package helpers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session is the login state kept as a Redis hash under user:session:<id>.
type Session struct {
	UserID int64
	Name   string
	Email  string
	Role   string
	SID    string
}

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps one active session per user; a new login replaces the previous one.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(userID int64) string {
	return "user:session:" + strconv.FormatInt(userID, 10)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (s *SessionStore) Save(ctx context.Context, sess Session) error {
	key := sessionKey(sess.UserID)
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    sess.UserID,
		"name":       sess.Name,
		"email":      sess.Email,
		"role":       sess.Role,
		"sid":        sess.SID,
		"created_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Get(ctx context.Context, userID int64) (Session, error) {
	data, err := s.rdb.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return Session{}, err
	}
	if len(data) == 0 {
		return Session{}, ErrSessionNotFound
	}
	id, err := strconv.ParseInt(data["user_id"], 10, 64)
	if err != nil {
		return Session{}, ErrSessionNotFound
	}
	return Session{UserID: id, Name: data["name"], Email: data["email"], Role: data["role"], SID: data["sid"]}, nil
}

// Rotate replaces the session id and refreshes the TTL.
func (s *SessionStore) Rotate(ctx context.Context, userID int64, sid string) error {
	key := sessionKey(userID)
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"sid":        sid,
		"updated_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// UpdateProfile refreshes cached name/email while keeping the remaining TTL.
func (s *SessionStore) UpdateProfile(ctx context.Context, userID int64, name, email string) error {
	key := sessionKey(userID)
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil || n == 0 {
		return err
	}
	return s.rdb.HSet(ctx, key, map[string]any{
		"name":       name,
		"email":      email,
		"updated_at": nowRFC3339(),
	}).Err()
}

func (s *SessionStore) Delete(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}
