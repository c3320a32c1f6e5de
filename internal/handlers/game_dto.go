package handlers

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/vancomm/minesweeper-engine/internal/board"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

// BoardQuery selects a board by preset name, by its "RxC/B" form, or by
// separate rows, columns and bombs.
type BoardQuery struct {
	Preset  string `schema:"preset"`
	Shape   string `schema:"board"`
	Rows    int    `schema:"rows"`
	Columns int    `schema:"columns"`
	Bombs   int    `schema:"bombs"`
}

func (q BoardQuery) Empty() bool {
	return q.Preset == "" && q.Shape == "" && q.Rows == 0 && q.Columns == 0 && q.Bombs == 0
}

func (q BoardQuery) Board() (board.Board, error) {
	if q.Preset != "" {
		b, ok := board.Preset(q.Preset)
		if !ok {
			return board.Board{}, fmt.Errorf("%w: unknown preset %q", board.ErrInvalidBoard, q.Preset)
		}
		return b, nil
	}
	b := board.Board{Rows: q.Rows, Columns: q.Columns, Bombs: q.Bombs}
	if q.Shape != "" {
		var err error
		if b, err = board.ParseBoard(q.Shape); err != nil {
			return board.Board{}, err
		}
	}
	return b, b.Validate()
}

type NewGameQuery struct {
	BoardQuery
	Name string `schema:"name"`
}

func ParseNewGameQuery(src url.Values) (NewGameQuery, board.Board, error) {
	var q NewGameQuery
	if err := decoder.Decode(&q, src); err != nil {
		return q, board.Board{}, err
	}
	if q.Empty() {
		return q, board.Easy, nil
	}
	b, err := q.Board()
	return q, b, err
}

type PositionQuery struct {
	Row    int `schema:"row,required"`
	Column int `schema:"column,required"`
}

func ParsePositionQuery(src url.Values) (PositionQuery, error) {
	var q PositionQuery
	err := decoder.Decode(&q, src)
	return q, err
}

type LeaderboardQuery struct {
	BoardQuery
	Name  string `schema:"name"`
	Limit int    `schema:"limit"`
}

func ParseLeaderboardQuery(src url.Values) (LeaderboardQuery, *board.Board, error) {
	var q LeaderboardQuery
	if err := decoder.Decode(&q, src); err != nil {
		return q, nil, err
	}
	if q.Limit < 0 {
		return q, nil, errors.New("limit must not be negative")
	}
	if q.Empty() {
		return q, nil, nil
	}
	b, err := q.Board()
	if err != nil {
		return q, nil, err
	}
	return q, &b, nil
}

type SessionDTO struct {
	SessionID        string      `json:"session_id"`
	Player           string      `json:"player"`
	Board            board.Board `json:"board"`
	Phase            mines.Phase `json:"phase"`
	Grid             mines.View  `json:"grid"`
	Revealed         []int       `json:"revealed,omitempty"`
	RemainingFlags   int         `json:"remaining_flags"`
	RemainingCovered int         `json:"remaining_covered"`
	LossIndex        *int        `json:"loss_index,omitempty"`
	StartedAt        int64       `json:"started_at"`
	EndedAt          *int64      `json:"ended_at,omitempty"`
}

func NewSessionDTO(s *session.Session, revealed []int) *SessionDTO {
	g := s.Game
	dto := &SessionDTO{
		SessionID:        s.ID.String(),
		Player:           s.Player,
		Board:            g.Board(),
		Phase:            g.Phase(),
		Grid:             g.View(),
		Revealed:         revealed,
		RemainingFlags:   g.RemainingFlags(),
		RemainingCovered: g.RemainingCovered(),
		StartedAt:        s.StartedAt.UnixMilli(),
	}
	if i, ok := g.LossIndex(); ok {
		dto.LossIndex = &i
	}
	if s.EndedAt != nil {
		e := s.EndedAt.UnixMilli()
		dto.EndedAt = &e
	}
	return dto
}
