package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessions(t *testing.T) (*SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionRepository(client, time.Hour), mr
}

func TestSessionRegisterAndRevoke(t *testing.T) {
	ctx := context.Background()
	s, _ := newSessions(t)

	require.NoError(t, s.Register(ctx, 1, "tok-a"))
	require.NoError(t, s.Register(ctx, 1, "tok-b"))

	ok, err := s.IsActive(ctx, 1, "tok-a")
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := s.Revoke(ctx, 1, "tok-a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Revoke(ctx, 1, "tok-a")
	require.NoError(t, err)
	assert.False(t, removed)

	ok, _ = s.IsActive(ctx, 1, "tok-a")
	assert.False(t, ok)
	ok, _ = s.IsActive(ctx, 1, "tok-b")
	assert.True(t, ok)
}

func TestSessionRevokeAll(t *testing.T) {
	ctx := context.Background()
	s, _ := newSessions(t)

	require.NoError(t, s.Register(ctx, 7, "x"))
	require.NoError(t, s.Register(ctx, 7, "y"))
	require.NoError(t, s.Register(ctx, 8, "z"))
	require.NoError(t, s.RevokeAll(ctx, 7))

	n, err := s.Count(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, n)
	ok, _ := s.IsActive(ctx, 8, "z")
	assert.True(t, ok)
}

func TestSessionRevokeOthers(t *testing.T) {
	ctx := context.Background()
	s, _ := newSessions(t)

	for _, tok := range []string{"a", "b", "c"} {
		require.NoError(t, s.Register(ctx, 3, tok))
	}
	require.NoError(t, s.RevokeOthers(ctx, 3, "b"))

	n, _ := s.Count(ctx, 3)
	assert.Equal(t, int64(1), n)
	ok, _ := s.IsActive(ctx, 3, "b")
	assert.True(t, ok)
}

func TestSessionStoresDigestsWithTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newSessions(t)

	require.NoError(t, s.Register(ctx, 5, "raw-token"))
	members, err := mr.Members("login:user:tokens:5")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.NotEqual(t, "raw-token", members[0])
	assert.Len(t, members[0], 64)
	assert.Equal(t, time.Hour, mr.TTL("login:user:tokens:5"))

	mr.FastForward(2 * time.Hour)
	ok, _ := s.IsActive(ctx, 5, "raw-token")
	assert.False(t, ok)
}

func TestSessionStoreUnavailable(t *testing.T) {
	s, mr := newSessions(t)
	mr.Close()

	_, err := s.IsActive(context.Background(), 1, "t")
	assert.Error(t, err)
}
