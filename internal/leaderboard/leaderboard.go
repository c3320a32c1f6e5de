// Package leaderboard keeps the times of won games.
package leaderboard

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/vancomm/minesweeper-engine/internal/board"
)

type Entry struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
	Board    board.Board   `json:"board"`
}

// Compare orders entries by duration, fastest first.
func Compare(a, b Entry) int {
	return cmp.Compare(a.Duration, b.Duration)
}

// Filter narrows [Store.Top]. Zero values match everything; a zero Limit
// returns all entries.
type Filter struct {
	Board *board.Board
	Name  string
	Limit int
}

func (f Filter) Match(e Entry) bool {
	if f.Board != nil && *f.Board != e.Board {
		return false
	}
	if f.Name != "" && f.Name != e.Name {
		return false
	}
	return true
}

type Store interface {
	Add(ctx context.Context, e Entry) error
	Top(ctx context.Context, f Filter) ([]Entry, error)
}

// Memory is a [Store] held in process memory.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemory(entries ...Entry) *Memory {
	m := &Memory{entries: slices.Clone(entries)}
	slices.SortStableFunc(m.entries, Compare)
	return m
}

func (m *Memory) Add(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, _ := slices.BinarySearchFunc(m.entries, e, func(a, b Entry) int {
		if c := Compare(a, b); c != 0 {
			return c
		}
		return -1 // after equal durations
	})
	m.entries = slices.Insert(m.entries, i, e)
	return nil
}

func (m *Memory) Top(_ context.Context, f Filter) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]Entry, 0)
	for _, e := range m.entries {
		if !f.Match(e) {
			continue
		}
		res = append(res, e)
		if f.Limit > 0 && len(res) == f.Limit {
			break
		}
	}
	return res, nil
}
