package mines

import (
	"fmt"
	"slices"

	"github.com/vancomm/minesweeper-engine/internal/board"
)

type CoverState int8

const (
	Covered CoverState = iota
	Flagged
	Revealed
)

func (s CoverState) String() string {
	switch s {
	case Covered:
		return "covered"
	case Flagged:
		return "flagged"
	case Revealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// Cell is the state of one square. Bomb and Adjacent are fixed when the
// board is set up; only State changes afterwards.
type Cell struct {
	State    CoverState
	Bomb     bool
	Adjacent int
}

type Phase int8

const (
	Playing Phase = iota
	Won
	Lost
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{Playing, Won, Lost} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Over reports whether p is terminal.
func (p Phase) Over() bool {
	return p == Won || p == Lost
}

// Observer is notified once per transition into a terminal phase. Lost
// receives -1 when the game was forfeited.
type Observer interface {
	Won(g *Game)
	Lost(g *Game, index int)
}

type Option func(*Game)

func WithObserver(o Observer) Option {
	return func(g *Game) {
		g.observer = o
	}
}

// Game owns the cells of one board and the phase of play. It is not safe
// for concurrent use; callers serialize access.
type Game struct {
	board     board.Board
	cells     []Cell
	phase     Phase
	lossIndex int
	safe      int // non-bomb cells not yet revealed

	src      Source
	observer Observer
}

// New creates a game on b with bombs drawn from src. A nil src falls back
// to the math/rand/v2 global generator.
func New(b board.Board, src Source, opts ...Option) (*Game, error) {
	g := &Game{src: src, lossIndex: -1}
	if g.src == nil {
		g.src = globalSource{}
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.Reset(b); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset replaces the whole game with a fresh one on b. On an invalid board
// the game is left untouched.
func (g *Game) Reset(b board.Board) error {
	if err := b.Validate(); err != nil {
		return err
	}

	cells := make([]Cell, b.Squares())
	placeBombs(b, cells, g.src)

	g.board = b
	g.cells = cells
	g.phase = Playing
	g.lossIndex = -1
	g.safe = b.Squares() - b.Bombs
	return nil
}

// placeBombs draws distinct bomb squares by rejection sampling and counts
// them into every neighbour, bombs included. It terminates because
// b.Bombs < b.Squares().
func placeBombs(b board.Board, cells []Cell, src Source) {
	squares := b.Squares()
	for placed := 0; placed < b.Bombs; {
		i := src.IntN(squares)
		if cells[i].Bomb {
			continue
		}
		cells[i].Bomb = true
		for _, j := range b.Neighbors(i) {
			cells[j].Adjacent++
		}
		placed++
	}
}

func (g *Game) SetObserver(o Observer) {
	g.observer = o
}

// Reveal uncovers the cell at index and returns the indices touched by the
// move in ascending order. A zero cell floods into its neighbours; flagged
// or already revealed neighbours are reported but left unchanged.
//
// Once the game is over Reveal does nothing and returns no indices.
func (g *Game) Reveal(index int) ([]int, error) {
	if err := g.check(index); err != nil {
		return nil, err
	}
	if g.phase != Playing {
		return nil, nil
	}

	cell := &g.cells[index]
	if cell.State != Covered {
		return []int{index}, nil
	}
	if cell.Bomb {
		cell.State = Revealed
		g.lose(index)
		return []int{index}, nil
	}
	return g.flood(index), nil
}

func (g *Game) flood(start int) []int {
	visited := make([]bool, len(g.cells))
	visited[start] = true
	touched := []int{start}
	stack := []int{start}

	g.open(start)

	for len(stack) > 0 && g.phase == Playing {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if g.cells[i].Adjacent != 0 {
			continue
		}
		for _, n := range g.board.Neighbors(i) {
			if visited[n] {
				continue
			}
			visited[n] = true
			touched = append(touched, n)
			if g.cells[n].State != Covered {
				continue
			}
			// i has no bomb neighbours, so n is safe
			g.open(n)
			if g.phase != Playing {
				break
			}
			stack = append(stack, n)
		}
	}

	slices.Sort(touched)
	return touched
}

// open reveals a safe cell and wins the game on the last one.
func (g *Game) open(i int) {
	g.cells[i].State = Revealed
	g.safe--
	if g.safe == 0 {
		g.win()
	}
}

func (g *Game) win() {
	g.phase = Won
	if g.observer != nil {
		g.observer.Won(g)
	}
}

func (g *Game) lose(index int) {
	g.phase = Lost
	g.lossIndex = index
	if g.observer != nil {
		g.observer.Lost(g, index)
	}
}

// ToggleMark flips a covered cell between Covered and Flagged. Revealed
// cells and finished games are left alone.
func (g *Game) ToggleMark(index int) error {
	if err := g.check(index); err != nil {
		return err
	}
	if g.phase != Playing {
		return nil
	}
	switch g.cells[index].State {
	case Covered:
		g.cells[index].State = Flagged
	case Flagged:
		g.cells[index].State = Covered
	}
	return nil
}

// Chord reveals every covered neighbour of a revealed number once the
// number of flags around it matches its count.
func (g *Game) Chord(index int) ([]int, error) {
	if err := g.check(index); err != nil {
		return nil, err
	}
	if g.phase != Playing {
		return nil, nil
	}
	cell := g.cells[index]
	if cell.State != Revealed {
		return nil, nil
	}

	var (
		flags      int
		candidates = make([]int, 0, 8)
	)
	for _, n := range g.board.Neighbors(index) {
		switch g.cells[n].State {
		case Flagged:
			flags++
		case Covered:
			candidates = append(candidates, n)
		}
	}
	if flags != cell.Adjacent || len(candidates) == 0 {
		return nil, nil
	}

	var revealed []int
	for _, n := range candidates {
		if g.phase != Playing {
			break
		}
		indices, _ := g.Reveal(n)
		revealed = append(revealed, indices...)
	}
	slices.Sort(revealed)
	return slices.Compact(revealed), nil
}

// Forfeit ends a running game as lost without a loss index.
func (g *Game) Forfeit() {
	if g.phase != Playing {
		return
	}
	g.lose(-1)
}

func (g *Game) check(index int) error {
	if !g.board.Contains(index) {
		return IndexError{Index: index, Squares: len(g.cells)}
	}
	return nil
}

func (g *Game) Board() board.Board {
	return g.board
}

func (g *Game) Phase() Phase {
	return g.phase
}

// LossIndex returns the bomb that ended the game. ok is false while
// playing, after a win and after a forfeit.
func (g *Game) LossIndex() (index int, ok bool) {
	if g.phase != Lost || g.lossIndex < 0 {
		return -1, false
	}
	return g.lossIndex, true
}

func (g *Game) Cell(index int) (Cell, error) {
	if err := g.check(index); err != nil {
		return Cell{}, err
	}
	return g.cells[index], nil
}

func (g *Game) Cells() []Cell {
	return slices.Clone(g.cells)
}

// RemainingCovered counts cells that are covered and not flagged.
func (g *Game) RemainingCovered() (count int) {
	for _, c := range g.cells {
		if c.State == Covered {
			count++
		}
	}
	return
}

// RemainingSafe counts non-bomb cells that are still to be revealed.
func (g *Game) RemainingSafe() int {
	return g.safe
}

// RemainingFlags is the bomb count minus the placed flags. It goes negative
// when the player over-flags.
func (g *Game) RemainingFlags() int {
	flags := 0
	for _, c := range g.cells {
		if c.State == Flagged {
			flags++
		}
	}
	return g.board.Bombs - flags
}

// Game implements [fmt.Stringer]
func (g *Game) String() string {
	return g.View().ToString(g.board.Columns)
}
