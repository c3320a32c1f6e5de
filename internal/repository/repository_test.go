package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/board"
	"github.com/vancomm/minesweeper-engine/internal/database"
	"github.com/vancomm/minesweeper-engine/internal/leaderboard"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/player"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

func TestWhereClause(t *testing.T) {
	where, args := whereClause(leaderboard.Filter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	b := board.Medium
	where, args = whereClause(leaderboard.Filter{Board: &b, Name: "alice", Limit: 3})
	assert.Equal(t,
		"name = @name AND board_rows = @board_rows AND board_columns = @board_columns AND bombs = @bombs",
		where,
	)
	assert.Equal(t, pgx.NamedArgs{
		"name":          "alice",
		"board_rows":    8,
		"board_columns": 8,
		"bombs":         10,
	}, args)
}

// setupDB connects to TEST_DATABASE_URL and migrates it; tests that need a
// database are skipped without one.
func setupDB(t *testing.T) *Queries {
	t.Helper()
	url, ok := os.LookupEnv("TEST_DATABASE_URL")
	if !ok || testing.Short() {
		t.Skip("TEST_DATABASE_URL not set")
	}
	_, err := database.Migrate(url)
	require.NoError(t, err)

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(),
		"TRUNCATE player, game_session, highscore RESTART IDENTITY;")
	require.NoError(t, err)
	return New(pool)
}

type center struct{}

func (center) IntN(n int) int { return n / 2 }

func TestGameSessions(t *testing.T) {
	q := setupDB(t)
	ctx := context.Background()
	store := q.GameSessions()

	game, err := mines.New(board.Board{Rows: 3, Columns: 3, Bombs: 1}, center{})
	require.NoError(t, err)
	s := &session.Session{
		ID:        uuid.New(),
		Player:    "alice",
		Game:      game,
		StartedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, store.Create(ctx, s))

	_, err = game.Reveal(4)
	require.NoError(t, err)
	ended := s.StartedAt.Add(time.Second)
	s.EndedAt = &ended
	require.NoError(t, store.Update(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Player)
	assert.Equal(t, mines.Lost, got.Game.Phase())
	assert.True(t, s.StartedAt.Equal(got.StartedAt))
	require.NotNil(t, got.EndedAt)
	assert.True(t, ended.Equal(*got.EndedAt))

	_, err = store.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, store.Update(ctx, &session.Session{ID: uuid.New(), Game: game}), session.ErrNotFound)
}

func TestHighscores(t *testing.T) {
	q := setupDB(t)
	ctx := context.Background()
	store := q.Highscores()

	require.NoError(t, store.Add(ctx, leaderboard.Entry{Name: "alice", Duration: 20 * time.Second, Board: board.Easy}))
	require.NoError(t, store.Add(ctx, leaderboard.Entry{Name: "bob", Duration: 10 * time.Second, Board: board.Easy}))
	require.NoError(t, store.Add(ctx, leaderboard.Entry{Name: "bob", Duration: 5 * time.Second, Board: board.Hard}))

	easy := board.Easy
	top, err := store.Top(ctx, leaderboard.Filter{Board: &easy})
	require.NoError(t, err)
	assert.Equal(t, []leaderboard.Entry{
		{Name: "bob", Duration: 10 * time.Second, Board: board.Easy},
		{Name: "alice", Duration: 20 * time.Second, Board: board.Easy},
	}, top)

	top, err = store.Top(ctx, leaderboard.Filter{Name: "bob", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []leaderboard.Entry{
		{Name: "bob", Duration: 5 * time.Second, Board: board.Hard},
	}, top)
}

func TestPlayers(t *testing.T) {
	q := setupDB(t)
	ctx := context.Background()
	store := q.Players()

	created, err := store.CreatePlayer(ctx, "alice", []byte("hash"))
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)

	_, err = store.CreatePlayer(ctx, "alice", []byte("other"))
	assert.ErrorIs(t, err, player.ErrUsernameTaken)

	found, err := store.FetchPlayer(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.PlayerID, found.PlayerID)
	assert.Equal(t, []byte("hash"), found.PasswordHash)

	_, err = store.FetchPlayer(ctx, "bob")
	assert.ErrorIs(t, err, player.ErrNotFound)
}
