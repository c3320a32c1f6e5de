// Package player holds registered accounts. Names of logged-in players go
// on the leaderboard.
package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken   = errors.New("username taken")
	ErrNotFound        = errors.New("player not found")
	ErrPasswordTooLong = errors.New("password too long")
	ErrBadCredentials  = errors.New("invalid username or password")
)

type Player struct {
	PlayerID     int64     `db:"player_id"`
	Username     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type Store interface {
	CreatePlayer(ctx context.Context, username string, passwordHash []byte) (*Player, error)
	FetchPlayer(ctx context.Context, username string) (*Player, error)
}

// HashPassword rejects passwords bcrypt would silently truncate.
func HashPassword(password string) ([]byte, error) {
	b := []byte(password)
	if len(b) > 72 {
		return nil, ErrPasswordTooLong
	}
	return bcrypt.GenerateFromPassword(b, bcrypt.DefaultCost)
}

// Authenticate fetches the player and checks the password. Unknown names
// and wrong passwords both yield ErrBadCredentials.
func Authenticate(ctx context.Context, s Store, username, password string) (*Player, error) {
	p, err := s.FetchPlayer(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return p, nil
}

type Memory struct {
	mu      sync.Mutex
	nextID  int64
	players map[string]*Player
}

func NewMemory() *Memory {
	return &Memory{players: make(map[string]*Player)}
}

func (m *Memory) CreatePlayer(_ context.Context, username string, passwordHash []byte) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[username]; ok {
		return nil, ErrUsernameTaken
	}
	m.nextID++
	p := &Player{
		PlayerID:     m.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.players[username] = p
	c := *p
	return &c, nil
}

func (m *Memory) FetchPlayer(_ context.Context, username string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[username]
	if !ok {
		return nil, ErrNotFound
	}
	c := *p
	return &c, nil
}
