package mines

import (
	"errors"
	"fmt"
)

var ErrIndexOutOfRange = errors.New("index out of range")

type IndexError struct {
	Index, Squares int
}

// [IndexError] implements [error]
func (e IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Squares)
}

func (e IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}
