package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionStore(rdb, time.Hour), mr
}

func TestSessionStore_Lifecycle(t *testing.T) {
	store, mr := newTestSessions(t)
	ctx := context.Background()

	_, err := store.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, Session{UserID: 7, Name: "Ann", Email: "ann@example.com", Role: "user", SID: "s1"}))
	assert.Equal(t, time.Hour, mr.TTL("user:session:7"))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, Session{UserID: 7, Name: "Ann", Email: "ann@example.com", Role: "user", SID: "s1"}, got)

	require.NoError(t, store.Rotate(ctx, 7, "s2"))
	require.NoError(t, store.UpdateProfile(ctx, 7, "Annie", "annie@example.com"))
	got, err = store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "s2", got.SID)
	assert.Equal(t, "Annie", got.Name)

	require.NoError(t, store.Delete(ctx, 7))
	_, err = store.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_UpdateProfileWithoutSession(t *testing.T) {
	store, mr := newTestSessions(t)

	require.NoError(t, store.UpdateProfile(context.Background(), 9, "x", "y"))
	assert.False(t, mr.Exists("user:session:9"))
}
