package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/vancomm/minesweeper-engine/internal/board"
)

type snapshot struct {
	Board     board.Board
	Cells     []Cell
	Phase     Phase
	LossIndex int
}

// MarshalBinary encodes the board, cells and phase with encoding/gob. The
// source and observer are not part of the encoding.
func (g *Game) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(snapshot{
		Board:     g.board,
		Cells:     g.cells,
		Phase:     g.phase,
		LossIndex: g.lossIndex,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// check rejects snapshots no sequence of moves could have produced.
func (s snapshot) check() (safe int, err error) {
	if err := s.Board.Validate(); err != nil {
		return 0, err
	}
	if len(s.Cells) != s.Board.Squares() {
		return 0, fmt.Errorf(
			"game state has %d cells, board %s needs %d",
			len(s.Cells), s.Board, s.Board.Squares(),
		)
	}
	for _, c := range s.Cells {
		if !c.Bomb && c.State != Revealed {
			safe++
		}
	}

	switch s.Phase {
	case Playing, Won:
		if s.LossIndex != -1 {
			return 0, fmt.Errorf("%s game state has loss index %d", s.Phase, s.LossIndex)
		}
		if (s.Phase == Won) != (safe == 0) {
			return 0, fmt.Errorf("%s game state has %d safe cells left", s.Phase, safe)
		}
	case Lost:
		if s.LossIndex == -1 {
			break
		}
		if !s.Board.Contains(s.LossIndex) {
			return 0, fmt.Errorf("loss index %d is outside %s", s.LossIndex, s.Board)
		}
		if c := s.Cells[s.LossIndex]; !c.Bomb || c.State != Revealed {
			return 0, fmt.Errorf("loss index %d is not a revealed bomb", s.LossIndex)
		}
	default:
		return 0, fmt.Errorf("unknown game phase %d", s.Phase)
	}
	return safe, nil
}

func (g *Game) UnmarshalBinary(data []byte) error {
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	safe, err := s.check()
	if err != nil {
		return err
	}

	g.board = s.Board
	g.cells = s.Cells
	g.phase = s.Phase
	g.lossIndex = s.LossIndex
	g.safe = safe
	if g.src == nil {
		g.src = globalSource{}
	}
	return nil
}

// Decode restores a game encoded with [Game.MarshalBinary].
func Decode(data []byte, src Source, opts ...Option) (*Game, error) {
	g := &Game{src: src}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return g, nil
}
