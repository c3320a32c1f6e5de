package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/board"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Entry{"carol", 30 * time.Second, board.Hard})

	require.NoError(t, m.Add(ctx, Entry{"alice", 12 * time.Second, board.Easy}))
	require.NoError(t, m.Add(ctx, Entry{"bob", 9 * time.Second, board.Easy}))
	require.NoError(t, m.Add(ctx, Entry{"alice", 40 * time.Second, board.Medium}))
	require.NoError(t, m.Add(ctx, Entry{"dave", 12 * time.Second, board.Easy}))

	all, err := m.Top(ctx, Filter{})
	require.NoError(t, err)
	names := make([]string, 0, len(all))
	for _, e := range all {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"bob", "alice", "dave", "carol", "alice"}, names)

	easy := board.Easy
	top, err := m.Top(ctx, Filter{Board: &easy, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{"bob", 9 * time.Second, board.Easy},
		{"alice", 12 * time.Second, board.Easy},
	}, top)

	mine, err := m.Top(ctx, Filter{Name: "alice"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := m.Top(ctx, Filter{Name: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
