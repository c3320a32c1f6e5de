package session

import (
	"fmt"
	"strconv"
	"strings"
)

// Move names a player action. The values double as the text protocol
// spoken over the websocket.
type Move string

const (
	Noop    Move = "g"
	Open    Move = "o"
	Flag    Move = "f"
	Chord   Move = "c"
	Forfeit Move = "r"
)

// Maps known moves to number of arguments
var moveNargs = map[Move]int{
	Noop:    0,
	Open:    2,
	Flag:    2,
	Chord:   2,
	Forfeit: 0,
}

var moveNames = map[string]Move{
	"noop":    Noop,
	"open":    Open,
	"reveal":  Open,
	"flag":    Flag,
	"mark":    Flag,
	"chord":   Chord,
	"forfeit": Forfeit,
}

// ParseMove accepts both the short protocol letters and long names.
func ParseMove(s string) (Move, error) {
	if _, ok := moveNargs[Move(s)]; ok {
		return Move(s), nil
	}
	if m, ok := moveNames[strings.ToLower(s)]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unknown move %q", s)
}

type Command struct {
	Move        Move
	Row, Column int
}

// ParseCommand parses one line such as "o 3 4" (open row 3, column 4).
func ParseCommand(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	move, err := ParseMove(parts[0])
	if err != nil {
		return Command{}, err
	}
	if moveNargs[move] != len(parts)-1 {
		return Command{}, fmt.Errorf("invalid number of arguments")
	}
	cmd := Command{Move: move}
	if moveNargs[move] == 2 {
		if cmd.Row, err = strconv.Atoi(parts[1]); err != nil {
			return Command{}, fmt.Errorf("row must be an int")
		}
		if cmd.Column, err = strconv.Atoi(parts[2]); err != nil {
			return Command{}, fmt.Errorf("column must be an int")
		}
	}
	return cmd, nil
}

// Command implements [fmt.Stringer]
func (c Command) String() string {
	if moveNargs[c.Move] == 2 {
		return fmt.Sprintf("%s %d %d", c.Move, c.Row, c.Column)
	}
	return string(c.Move)
}
