package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// Square is what a player sees in one cell.
type Square int8

const (
	Unknown     Square = -2
	Flag        Square = -1
	CorrectFlag Square = 64 // post-game-over
	Exploded    Square = 65
	WrongFlag   Square = 66
	Bomb        Square = 67
	// 0-8 for a revealed cell with that many bomb neighbours
)

func (s Square) String() string {
	switch s {
	case Unknown:
		return "."
	case Flag, CorrectFlag:
		return "F"
	case Exploded:
		return "X"
	case WrongFlag:
		return "x"
	case Bomb:
		return "*"
	case 0:
		return " "
	case 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

type View []Square

func (v View) ToString(columns int) string {
	var b strings.Builder
	for row := range len(v) / columns {
		for column := range columns {
			fmt.Fprint(&b, v[row*columns+column].String())
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// View returns the player's view of the board. Bombs stay hidden while the
// game runs; once it is over they are shown, and wrong flags are crossed
// out after a loss.
func (g *Game) View() View {
	view := make(View, len(g.cells))
	for i, c := range g.cells {
		view[i] = g.square(i, c)
	}
	return view
}

func (g *Game) square(i int, c Cell) Square {
	switch {
	case c.State == Revealed && c.Bomb:
		if i == g.lossIndex {
			return Exploded
		}
		return Bomb
	case c.State == Revealed:
		return Square(c.Adjacent)
	case g.phase == Playing:
		if c.State == Flagged {
			return Flag
		}
		return Unknown
	case c.Bomb && (c.State == Flagged || g.phase == Won):
		return CorrectFlag
	case c.Bomb:
		return Bomb
	case c.State == Flagged:
		return WrongFlag
	default:
		return Unknown
	}
}
