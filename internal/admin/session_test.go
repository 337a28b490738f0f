package admin

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
	sessions, err := NewSessionStore(mr.Addr(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(sessions.Close)
	return sessions, mr
}

func TestSessionStore_CreateAndLookup(t *testing.T) {
	sessions, _ := newTestSessions(t)
	ctx := context.Background()

	token, err := sessions.Create(ctx, "eve")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	actor, err := sessions.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "eve", actor)
}

func TestSessionStore_LookupUnknownToken(t *testing.T) {
	sessions, _ := newTestSessions(t)

	_, err := sessions.Lookup(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionStore_Expiry(t *testing.T) {
	sessions, mr := newTestSessions(t)
	ctx := context.Background()

	token, err := sessions.Create(ctx, "eve")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = sessions.Lookup(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
}

// Each lookup pushes the expiry out again, so an active admin never gets
// signed out mid-shift.
func TestSessionStore_LookupRefreshesTTL(t *testing.T) {
	sessions, mr := newTestSessions(t)
	ctx := context.Background()

	token, err := sessions.Create(ctx, "eve")
	require.NoError(t, err)

	mr.FastForward(45 * time.Minute)
	_, err = sessions.Lookup(ctx, token)
	require.NoError(t, err)

	mr.FastForward(45 * time.Minute)
	actor, err := sessions.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "eve", actor)
}

func TestSessionStore_Destroy(t *testing.T) {
	sessions, _ := newTestSessions(t)
	ctx := context.Background()

	token, err := sessions.Create(ctx, "eve")
	require.NoError(t, err)

	require.NoError(t, sessions.Destroy(ctx, token))
	_, err = sessions.Lookup(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)

	assert.NoError(t, sessions.Destroy(ctx, token), "destroying twice is fine")
}
