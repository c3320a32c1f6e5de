package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/board"
	"github.com/vancomm/minesweeper-engine/internal/leaderboard"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

// fixed always places bombs on the same square.
type fixed int

func (f fixed) IntN(n int) int {
	return int(f) % n
}

// clock advances by step on every call.
func clock(start time.Time, step time.Duration) func() time.Time {
	now := start.Add(-step)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

var centerBomb = board.Board{Rows: 3, Columns: 3, Bombs: 1}

func setup(t *testing.T) (*Manager, *leaderboard.Memory, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	lb := leaderboard.NewMemory()
	m := NewManager(
		logger, NewMemoryStore(), lb, fixed(4),
		WithClock(clock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 42*time.Second)),
	)
	return m, lb, hook
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		cmd  Command
		ok   bool
	}{
		{"g", Command{Move: Noop}, true},
		{"o 3 4", Command{Move: Open, Row: 3, Column: 4}, true},
		{"  f 0 7 ", Command{Move: Flag, Column: 7}, true},
		{"c 1 1", Command{Move: Chord, Row: 1, Column: 1}, true},
		{"r", Command{Move: Forfeit}, true},
		{"reveal 2 2", Command{Move: Open, Row: 2, Column: 2}, true},
		{"", Command{}, false},
		{"x 1 1", Command{}, false},
		{"o 1", Command{}, false},
		{"r 1 1", Command{}, false},
		{"o a 1", Command{}, false},
		{"o 1 b", Command{}, false},
	}
	for _, test := range tests {
		cmd, err := ParseCommand(test.line)
		if !test.ok {
			assert.Error(t, err, "%q", test.line)
			continue
		}
		require.NoError(t, err, "%q", test.line)
		assert.Equal(t, test.cmd, cmd)
	}

	assert.Equal(t, "o 3 4", Command{Move: Open, Row: 3, Column: 4}.String())
	assert.Equal(t, "r", Command{Move: Forfeit}.String())
}

func TestManagerWin(t *testing.T) {
	ctx := context.Background()
	m, lb, hook := setup(t)

	s, err := m.New(ctx, centerBomb, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", s.Player)
	assert.Nil(t, s.EndedAt)

	res, err := m.Reveal(ctx, s.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Revealed)
	assert.Equal(t, mines.Playing, res.Game.Phase())

	for _, i := range []int{1, 2, 3, 5, 6, 7, 8} {
		res, err = m.Reveal(ctx, s.ID, i/3, i%3)
		require.NoError(t, err)
	}
	assert.Equal(t, mines.Won, res.Game.Phase())
	require.NotNil(t, res.EndedAt)

	stored, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, mines.Won, stored.Game.Phase())
	assert.Equal(t, 42*time.Second, stored.Playtime())

	top, err := lb.Top(ctx, leaderboard.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []leaderboard.Entry{
		{Name: "alice", Duration: 42 * time.Second, Board: centerBomb},
	}, top)
	assert.Equal(t, "game won", hook.LastEntry().Message)
}

// flaky fails every Update while broken is set.
type flaky struct {
	*MemoryStore
	broken bool
}

func (f *flaky) Update(ctx context.Context, s *Session) error {
	if f.broken {
		return errors.New("connection reset")
	}
	return f.MemoryStore.Update(ctx, s)
}

func TestManagerWinNotStored(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	lb := leaderboard.NewMemory()
	store := &flaky{MemoryStore: NewMemoryStore()}
	m := NewManager(logger, store, lb, fixed(4))

	s, err := m.New(ctx, centerBomb, "alice")
	require.NoError(t, err)
	for _, i := range []int{0, 1, 2, 3, 5, 6, 7} {
		_, err = m.Reveal(ctx, s.ID, i/3, i%3)
		require.NoError(t, err)
	}

	store.broken = true
	_, err = m.Reveal(ctx, s.ID, 2, 2)
	require.Error(t, err)

	top, err := lb.Top(ctx, leaderboard.Filter{})
	require.NoError(t, err)
	assert.Empty(t, top, "no entry for a win that was not stored")
	stored, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, mines.Playing, stored.Game.Phase())

	store.broken = false
	res, err := m.Reveal(ctx, s.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, mines.Won, res.Game.Phase())
	top, err = lb.Top(ctx, leaderboard.Filter{})
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestManagerLoss(t *testing.T) {
	ctx := context.Background()
	m, lb, _ := setup(t)

	s, err := m.New(ctx, centerBomb, "")
	require.NoError(t, err)
	assert.Equal(t, Anonymous, s.Player)

	res, err := m.Mark(ctx, s.ID, 0, 0)
	require.NoError(t, err)
	c, _ := res.Game.Cell(0)
	assert.Equal(t, mines.Flagged, c.State)

	res, err = m.Reveal(ctx, s.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, mines.Lost, res.Game.Phase())
	require.NotNil(t, res.EndedAt)
	endedAt := *res.EndedAt

	res, err = m.Reveal(ctx, s.ID, 0, 1)
	require.NoError(t, err)
	assert.Empty(t, res.Revealed)
	assert.Equal(t, endedAt, *res.EndedAt)

	top, err := lb.Top(ctx, leaderboard.Filter{})
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestManagerChordAndForfeit(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setup(t)

	s, err := m.New(ctx, centerBomb, "bob")
	require.NoError(t, err)

	res, err := m.Execute(ctx, s.ID,
		Command{Move: Open, Row: 0, Column: 0},
		Command{Move: Flag, Row: 1, Column: 1},
		Command{Move: Chord, Row: 0, Column: 0},
	)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, res.Revealed)

	res, err = m.Forfeit(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, mines.Lost, res.Game.Phase())
	_, ok := res.Game.LossIndex()
	assert.False(t, ok)
	assert.NotNil(t, res.EndedAt)
}

func TestManagerBatchStopsAtEnd(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setup(t)

	s, err := m.New(ctx, centerBomb, "")
	require.NoError(t, err)

	res, err := m.Execute(ctx, s.ID,
		Command{Move: Open, Row: 1, Column: 1},
		Command{Move: Open, Row: 0, Column: 0},
		Command{Move: Open, Row: 9, Column: 9},
	)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, res.Revealed)
	assert.Equal(t, mines.Lost, res.Game.Phase())
}

func TestManagerErrors(t *testing.T) {
	ctx := context.Background()
	m, _, _ := setup(t)

	_, err := m.New(ctx, board.Board{Rows: 2, Columns: 2, Bombs: 4}, "")
	assert.ErrorIs(t, err, board.ErrInvalidBoard)

	_, err = m.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Reveal(ctx, uuid.New(), 0, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := m.New(ctx, centerBomb, "")
	require.NoError(t, err)
	_, err = m.Reveal(ctx, s.ID, 0, 3)
	assert.ErrorIs(t, err, mines.ErrIndexOutOfRange)

	// the failed batch must not be stored
	_, err = m.Execute(ctx, s.ID,
		Command{Move: Open, Row: 0, Column: 0},
		Command{Move: Flag, Row: -1, Column: 0},
	)
	assert.ErrorIs(t, err, mines.ErrIndexOutOfRange)
	stored, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Game.RemainingSafe())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	game, err := mines.New(centerBomb, fixed(4))
	require.NoError(t, err)
	s := &Session{ID: uuid.New(), Player: "carol", Game: game, StartedAt: time.Now()}
	require.NoError(t, store.Create(ctx, s))
	assert.Error(t, store.Create(ctx, s))

	_, err = game.Reveal(0)
	require.NoError(t, err)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Game.RemainingSafe(), "store must not alias the game")

	require.NoError(t, store.Update(ctx, s))
	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Game.RemainingSafe())

	assert.ErrorIs(t, store.Update(ctx, &Session{ID: uuid.New(), Game: game}), ErrNotFound)
}
