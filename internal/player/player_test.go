package player

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	p, err := m.CreatePlayer(ctx, "alice", hash)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.PlayerID)

	_, err = m.CreatePlayer(ctx, "alice", hash)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := Authenticate(ctx, m, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = Authenticate(ctx, m, "alice", "hunter3")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = Authenticate(ctx, m, "bob", "hunter2")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
