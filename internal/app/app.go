package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/database"
	"github.com/vancomm/minesweeper-engine/internal/leaderboard"
	"github.com/vancomm/minesweeper-engine/internal/player"
	"github.com/vancomm/minesweeper-engine/internal/repository"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	log         logrus.FieldLogger
	router      chi.Router
	sessions    *session.Manager
	leaderboard leaderboard.Store
	players     player.Store
	cookies     *config.Cookies // nil disables accounts
	ws          *config.WebSocket
	closers     []func()
}

func New(log logrus.FieldLogger) *App {
	return &App{log: log}
}

func (a *App) useMemory() {
	store := session.NewMemoryStore()
	a.leaderboard = leaderboard.NewMemory()
	a.players = player.NewMemory()
	a.sessions = session.NewManager(a.log, store, a.leaderboard, createRand())
}

func (a *App) usePostgres(ctx context.Context) error {
	pool, m, err := database.ConnectAndMigrate(ctx)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	a.closers = append(a.closers, pool.Close, func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			a.log.WithError(errors.Join(srcErr, dbErr)).Warn("unable to close migrator")
		}
	})

	q := repository.New(pool)
	a.leaderboard = q.Highscores()
	a.players = q.Players()
	a.sessions = session.NewManager(a.log, q.GameSessions(), a.leaderboard, createRand())
	return nil
}

// setup wires storage, accounts and routes from the environment.
func (a *App) setup(ctx context.Context) error {
	storage, err := config.StorageKind()
	if err != nil {
		return err
	}
	switch storage {
	case config.PostgresStorage:
		if err := a.usePostgres(ctx); err != nil {
			return err
		}
	default:
		a.useMemory()
	}
	a.log.WithField("storage", storage).Info("storage ready")

	jwt, err := config.NewJWT()
	if err == nil {
		a.cookies, err = config.NewCookies(jwt)
	}
	if err != nil {
		a.log.WithError(err).Warn("accounts disabled")
		a.cookies = nil
	}

	a.ws = config.NewWebSocket()
	a.loadRoutes()
	return nil
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *App) Start(ctx context.Context) error {
	if err := a.setup(ctx); err != nil {
		return err
	}
	defer a.close()

	addr := config.Port()
	server := &http.Server{
		Addr:    addr,
		Handler: a.router,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithField("addr", addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
