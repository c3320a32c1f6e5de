package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-engine/internal/board"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

type gameSession struct {
	GameSessionID uuid.UUID  `db:"game_session_id"`
	Player        string     `db:"player"`
	BoardRows     int        `db:"board_rows"`
	BoardColumns  int        `db:"board_columns"`
	Bombs         int        `db:"bombs"`
	Phase         string     `db:"phase"`
	State         []byte     `db:"state"`
	StartedAt     time.Time  `db:"started_at"`
	EndedAt       *time.Time `db:"ended_at"`
}

func sessionArgs(s *session.Session) (pgx.NamedArgs, error) {
	state, err := s.Game.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("unable to encode game state: %w", err)
	}
	b := s.Game.Board()
	return pgx.NamedArgs{
		"game_session_id": s.ID,
		"player":          s.Player,
		"board_rows":      b.Rows,
		"board_columns":   b.Columns,
		"bombs":           b.Bombs,
		"phase":           s.Game.Phase().String(),
		"state":           state,
		"started_at":      s.StartedAt,
		"ended_at":        s.EndedAt,
	}, nil
}

// GameSessions is a [session.Store].
type GameSessions struct {
	q *Queries
}

func (q *Queries) GameSessions() *GameSessions {
	return &GameSessions{q: q}
}

func (g *GameSessions) Create(ctx context.Context, s *session.Session) error {
	args, err := sessionArgs(s)
	if err != nil {
		return err
	}
	_, err = g.q.db.Exec(
		ctx,
		`INSERT INTO game_session (
			game_session_id, player, board_rows, board_columns, bombs,
			phase, state, started_at, ended_at
		)
		VALUES (
			@game_session_id, @player, @board_rows, @board_columns, @bombs,
			@phase, @state, @started_at, @ended_at
		);`,
		args,
	)
	return err
}

func (g *GameSessions) Get(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	rows, _ := g.q.db.Query(
		ctx,
		`SELECT game_session_id, player, board_rows, board_columns, bombs,
			phase, state, started_at, ended_at
		FROM game_session
		WHERE game_session_id = $1;`,
		id,
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[gameSession])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	game, err := mines.Decode(row.State, nil)
	if err != nil {
		return nil, fmt.Errorf("db returned invalid game_session.state: %w", err)
	}
	stored := board.Board{Rows: row.BoardRows, Columns: row.BoardColumns, Bombs: row.Bombs}
	if game.Board() != stored {
		return nil, fmt.Errorf(
			"game_session %s: state board %s differs from columns %s",
			id, game.Board(), stored,
		)
	}

	return &session.Session{
		ID:        row.GameSessionID,
		Player:    row.Player,
		Game:      game,
		StartedAt: row.StartedAt,
		EndedAt:   row.EndedAt,
	}, nil
}

func (g *GameSessions) Update(ctx context.Context, s *session.Session) error {
	args, err := sessionArgs(s)
	if err != nil {
		return err
	}
	tag, err := g.q.db.Exec(
		ctx,
		`UPDATE game_session
		SET phase = @phase
			, state = @state
			, ended_at = @ended_at
			, updated_at = now()
		WHERE game_session_id = @game_session_id;`,
		args,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}
