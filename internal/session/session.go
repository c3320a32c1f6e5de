package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var ErrNotFound = errors.New("session not found")

// Session is one game together with who plays it and when.
type Session struct {
	ID        uuid.UUID
	Player    string
	Game      *mines.Game
	StartedAt time.Time
	EndedAt   *time.Time
}

// Playtime is the time between start and end, or zero while playing.
func (s *Session) Playtime() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Update(ctx context.Context, s *Session) error
}

type record struct {
	player    string
	state     []byte
	startedAt time.Time
	endedAt   *time.Time
}

// MemoryStore keeps encoded sessions in a map. Sessions returned by Get are
// fresh copies.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]record)}
}

func (m *MemoryStore) put(s *Session) error {
	state, err := s.Game.MarshalBinary()
	if err != nil {
		return err
	}
	var endedAt *time.Time
	if s.EndedAt != nil {
		e := *s.EndedAt
		endedAt = &e
	}
	m.sessions[s.ID] = record{
		player:    s.Player,
		state:     state,
		startedAt: s.StartedAt,
		endedAt:   endedAt,
	}
	return nil
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; ok {
		return errors.New("session already exists")
	}
	return m.put(s)
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	game, err := mines.Decode(r.state, nil)
	if err != nil {
		return nil, err
	}
	var endedAt *time.Time
	if r.endedAt != nil {
		e := *r.endedAt
		endedAt = &e
	}
	return &Session{
		ID:        id,
		Player:    r.player,
		Game:      game,
		StartedAt: r.startedAt,
		EndedAt:   endedAt,
	}, nil
}

func (m *MemoryStore) Update(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrNotFound
	}
	return m.put(s)
}
