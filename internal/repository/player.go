package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/minesweeper-engine/internal/player"
)

// Players is a [player.Store].
type Players struct {
	q *Queries
}

func (q *Queries) Players() *Players {
	return &Players{q: q}
}

func (p *Players) CreatePlayer(
	ctx context.Context, username string, passwordHash []byte,
) (*player.Player, error) {
	rows, _ := p.q.db.Query(
		ctx,
		`INSERT INTO player (username, password_hash)
		VALUES ($1, $2)
		RETURNING player_id, username, password_hash, created_at;`,
		username,
		passwordHash,
	)
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[player.Player])
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return nil, player.ErrUsernameTaken
	}
	return created, err
}

func (p *Players) FetchPlayer(ctx context.Context, username string) (*player.Player, error) {
	rows, _ := p.q.db.Query(
		ctx,
		`SELECT player_id, username, password_hash, created_at
		FROM player
		WHERE username = $1;`,
		username,
	)
	found, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[player.Player])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, player.ErrNotFound
	}
	return found, err
}
