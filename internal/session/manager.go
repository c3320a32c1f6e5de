package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/board"
	"github.com/vancomm/minesweeper-engine/internal/leaderboard"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

const Anonymous = "anonymous"

// Manager owns the sessions. It serializes every command, so engines never
// see concurrent calls, and records won games on the leaderboard.
type Manager struct {
	mu          sync.Mutex
	log         logrus.FieldLogger
	store       Store
	leaderboard leaderboard.Store
	src         mines.Source
	now         func() time.Time
}

type ManagerOption func(*Manager)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(
	log logrus.FieldLogger,
	store Store,
	lb leaderboard.Store,
	src mines.Source,
	opts ...ManagerOption,
) *Manager {
	m := &Manager{
		log:         log,
		store:       store,
		leaderboard: lb,
		src:         src,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result is the outcome of one command.
type Result struct {
	*Session
	Revealed []int
}

func (m *Manager) New(ctx context.Context, b board.Board, player string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	game, err := mines.New(b, m.src)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("unable to generate session id: %w", err)
	}
	if player == "" {
		player = Anonymous
	}
	s := &Session{
		ID:        id,
		Player:    player,
		Game:      game,
		StartedAt: m.now().UTC(),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("unable to store session: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"session": id,
		"player":  player,
		"board":   b.String(),
	}).Debug("created session")
	return s, nil
}

func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Get(ctx, id)
}

func (m *Manager) Reveal(ctx context.Context, id uuid.UUID, row, column int) (*Result, error) {
	return m.Execute(ctx, id, Command{Move: Open, Row: row, Column: column})
}

func (m *Manager) Mark(ctx context.Context, id uuid.UUID, row, column int) (*Result, error) {
	return m.Execute(ctx, id, Command{Move: Flag, Row: row, Column: column})
}

func (m *Manager) Chord(ctx context.Context, id uuid.UUID, row, column int) (*Result, error) {
	return m.Execute(ctx, id, Command{Move: Chord, Row: row, Column: column})
}

func (m *Manager) Forfeit(ctx context.Context, id uuid.UUID) (*Result, error) {
	return m.Execute(ctx, id, Command{Move: Forfeit})
}

// Execute runs a batch of commands against one session and stores the
// result once. Commands after the end of the game are skipped.
func (m *Manager) Execute(ctx context.Context, id uuid.UUID, cmds ...Command) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	f := &finisher{m: m, session: s}
	s.Game.SetObserver(f)

	res := &Result{Session: s}
	for _, cmd := range cmds {
		if s.Game.Phase().Over() {
			break
		}
		revealed, err := m.apply(s.Game, cmd)
		if err != nil {
			return nil, err
		}
		res.Revealed = append(res.Revealed, revealed...)
	}
	s.Game.SetObserver(nil)

	if err := m.store.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("unable to update session: %w", err)
	}
	if f.entry != nil {
		if err := m.leaderboard.Add(ctx, *f.entry); err != nil {
			return nil, fmt.Errorf("unable to add leaderboard entry: %w", err)
		}
		m.log.WithFields(logrus.Fields{
			"session":  s.ID,
			"player":   f.entry.Name,
			"duration": f.entry.Duration,
		}).Info("game won")
	}
	return res, nil
}

func (m *Manager) apply(g *mines.Game, cmd Command) ([]int, error) {
	if cmd.Move == Noop {
		return nil, nil
	}
	if cmd.Move == Forfeit {
		g.Forfeit()
		return nil, nil
	}

	b := g.Board()
	if !b.InBounds(cmd.Row, cmd.Column) {
		return nil, fmt.Errorf(
			"%w: (%d, %d) is outside %s", mines.ErrIndexOutOfRange, cmd.Row, cmd.Column, b,
		)
	}
	i := b.Index(cmd.Row, cmd.Column)

	switch cmd.Move {
	case Open:
		return g.Reveal(i)
	case Flag:
		return nil, g.ToggleMark(i)
	case Chord:
		return g.Chord(i)
	}
	return nil, fmt.Errorf("unknown move %q", cmd.Move)
}

// finisher stamps the end of a session and keeps the leaderboard entry of
// a win until the session is stored.
type finisher struct {
	m       *Manager
	session *Session
	entry   *leaderboard.Entry
}

func (f *finisher) end() {
	now := f.m.now().UTC()
	f.session.EndedAt = &now
}

func (f *finisher) Won(g *mines.Game) {
	f.end()
	f.entry = &leaderboard.Entry{
		Name:     f.session.Player,
		Duration: f.session.Playtime(),
		Board:    g.Board(),
	}
}

func (f *finisher) Lost(g *mines.Game, index int) {
	f.end()
	f.m.log.WithFields(logrus.Fields{
		"session": f.session.ID,
		"index":   index,
	}).Info("game lost")
}
