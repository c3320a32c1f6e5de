package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-engine/internal/board"
	"github.com/vancomm/minesweeper-engine/internal/leaderboard"
)

type highscore struct {
	Name         string `db:"name"`
	BoardRows    int    `db:"board_rows"`
	BoardColumns int    `db:"board_columns"`
	Bombs        int    `db:"bombs"`
	DurationMs   int64  `db:"duration_ms"`
}

func (h highscore) entry() leaderboard.Entry {
	return leaderboard.Entry{
		Name:     h.Name,
		Duration: time.Duration(h.DurationMs) * time.Millisecond,
		Board: board.Board{
			Rows:    h.BoardRows,
			Columns: h.BoardColumns,
			Bombs:   h.Bombs,
		},
	}
}

func whereClause(f leaderboard.Filter) (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Name != "" {
		clauses = append(clauses, "name = @name")
		args["name"] = f.Name
	}
	if f.Board != nil {
		clauses = append(
			clauses,
			"board_rows = @board_rows",
			"board_columns = @board_columns",
			"bombs = @bombs",
		)
		args["board_rows"] = f.Board.Rows
		args["board_columns"] = f.Board.Columns
		args["bombs"] = f.Board.Bombs
	}
	return strings.Join(clauses, " AND "), args
}

// Highscores is a [leaderboard.Store].
type Highscores struct {
	q *Queries
}

func (q *Queries) Highscores() *Highscores {
	return &Highscores{q: q}
}

func (h *Highscores) Add(ctx context.Context, e leaderboard.Entry) error {
	_, err := h.q.db.Exec(
		ctx,
		`INSERT INTO highscore (name, board_rows, board_columns, bombs, duration_ms)
		VALUES (@name, @board_rows, @board_columns, @bombs, @duration_ms);`,
		pgx.NamedArgs{
			"name":          e.Name,
			"board_rows":    e.Board.Rows,
			"board_columns": e.Board.Columns,
			"bombs":         e.Board.Bombs,
			"duration_ms":   e.Duration.Milliseconds(),
		},
	)
	return err
}

func (h *Highscores) Top(ctx context.Context, f leaderboard.Filter) ([]leaderboard.Entry, error) {
	query := `
	SELECT name, board_rows, board_columns, bombs, duration_ms
	FROM highscore`

	where, args := whereClause(f)
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY duration_ms, highscore_id"
	if f.Limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = f.Limit
	}

	rows, err := h.q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	scores, err := pgx.CollectRows(rows, pgx.RowToStructByName[highscore])
	if err != nil {
		return nil, err
	}
	entries := make([]leaderboard.Entry, len(scores))
	for i, s := range scores {
		entries[i] = s.entry()
	}
	return entries, nil
}
