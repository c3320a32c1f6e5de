package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidBoard = errors.New("invalid board")

// Board describes the shape and difficulty of a game. It is a plain value:
// two boards are equal when all three fields match.
type Board struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
	Bombs   int `json:"bombs"`
}

var (
	Easy   = Board{Rows: 8, Columns: 8, Bombs: 5}
	Medium = Board{Rows: 8, Columns: 8, Bombs: 10}
	Hard   = Board{Rows: 12, Columns: 12, Bombs: 40}
)

var presets = map[string]Board{
	"easy":   Easy,
	"medium": Medium,
	"hard":   Hard,
}

// Preset looks up a named preset (easy, medium, hard).
func Preset(name string) (Board, bool) {
	b, ok := presets[strings.ToLower(name)]
	return b, ok
}

// Presets returns a copy of the named presets.
func Presets() map[string]Board {
	m := make(map[string]Board, len(presets))
	for k, v := range presets {
		m[k] = v
	}
	return m
}

func (b Board) Squares() int {
	return b.Rows * b.Columns
}

// Validate checks 0 < rows, 0 < columns and 0 <= bombs < rows*columns.
// At least one square must stay free so that placement terminates.
func (b Board) Validate() error {
	switch {
	case b.Rows <= 0:
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidBoard, b.Rows)
	case b.Columns <= 0:
		return fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidBoard, b.Columns)
	case b.Bombs < 0:
		return fmt.Errorf("%w: bombs must not be negative, got %d", ErrInvalidBoard, b.Bombs)
	case b.Bombs >= b.Squares():
		return fmt.Errorf(
			"%w: %d bombs do not fit on %d squares", ErrInvalidBoard, b.Bombs, b.Squares(),
		)
	}
	return nil
}

// ParseBoard is the inverse of [Board.String]. The result is not
// validated.
func ParseBoard(s string) (Board, error) {
	shape, bombs, ok := strings.Cut(s, "/")
	rows, columns, ok2 := strings.Cut(shape, "x")
	if !ok || !ok2 {
		return Board{}, fmt.Errorf("%w: %q is not of the form RxC/B", ErrInvalidBoard, s)
	}
	var (
		b    Board
		errs [3]error
	)
	b.Rows, errs[0] = strconv.Atoi(rows)
	b.Columns, errs[1] = strconv.Atoi(columns)
	b.Bombs, errs[2] = strconv.Atoi(bombs)
	if err := errors.Join(errs[:]...); err != nil {
		return Board{}, fmt.Errorf("%w: %q: %w", ErrInvalidBoard, s, err)
	}
	return b, nil
}

// Board implements [fmt.Stringer]
func (b Board) String() string {
	return fmt.Sprintf("%dx%d/%d", b.Rows, b.Columns, b.Bombs)
}
