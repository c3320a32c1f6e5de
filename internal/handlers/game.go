package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/board"
	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/leaderboard"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

var (
	ErrBadSessionID = errors.New("session id must be a uuid")
	ErrBadCommand   = errors.New("bad command")
)

type GameHandler struct {
	log         logrus.FieldLogger
	sessions    *session.Manager
	leaderboard leaderboard.Store
	ws          *config.WebSocket
}

func NewGameHandler(
	log logrus.FieldLogger,
	sessions *session.Manager,
	lb leaderboard.Store,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		log:         log,
		sessions:    sessions,
		leaderboard: lb,
		ws:          ws,
	}
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, ErrBadSessionID
	}
	return id, nil
}

func (g GameHandler) Boards(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, g.log, http.StatusOK, board.Presets())
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	query, b, err := ParseNewGameQuery(r.URL.Query())
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}

	name := query.Name
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		name = claims.Username
	}

	s, err := g.sessions.New(r.Context(), b, name)
	if err != nil {
		fail(w, g.log, "unable to create session", err)
		return
	}
	sendJSON(w, g.log, http.StatusOK, NewSessionDTO(s, nil))
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	s, err := g.sessions.Get(r.Context(), id)
	if err != nil {
		fail(w, g.log, "unable to fetch session", err)
		return
	}
	sendJSON(w, g.log, http.StatusOK, NewSessionDTO(s, nil))
}

type positionMove func(ctx context.Context, id uuid.UUID, row, column int) (*session.Result, error)

func (g GameHandler) move(w http.ResponseWriter, r *http.Request, move positionMove) {
	id, err := sessionID(r)
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	pos, err := ParsePositionQuery(r.URL.Query())
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	res, err := move(r.Context(), id, pos.Row, pos.Column)
	if err != nil {
		fail(w, g.log, "unable to apply move", err)
		return
	}
	sendJSON(w, g.log, http.StatusOK, NewSessionDTO(res.Session, res.Revealed))
}

func (g GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, g.sessions.Reveal)
}

func (g GameHandler) Mark(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, g.sessions.Mark)
}

func (g GameHandler) Chord(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, g.sessions.Chord)
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	res, err := g.sessions.Forfeit(r.Context(), id)
	if err != nil {
		fail(w, g.log, "unable to forfeit", err)
		return
	}
	sendJSON(w, g.log, http.StatusOK, NewSessionDTO(res.Session, res.Revealed))
}

type LeaderboardEntryDTO struct {
	Name     string      `json:"name"`
	Duration int64       `json:"duration"`
	Board    board.Board `json:"board"`
}

func (g GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	query, b, err := ParseLeaderboardQuery(r.URL.Query())
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	entries, err := g.leaderboard.Top(r.Context(), leaderboard.Filter{
		Board: b,
		Name:  query.Name,
		Limit: query.Limit,
	})
	if err != nil {
		fail(w, g.log, "unable to fetch leaderboard", err)
		return
	}
	dtos := make([]LeaderboardEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = LeaderboardEntryDTO{
			Name:     e.Name,
			Duration: e.Duration.Milliseconds(),
			Board:    e.Board,
		}
	}
	sendJSON(w, g.log, http.StatusOK, dtos)
}

// Connect upgrades to a websocket. Each text message holds one command per
// line; the whole message is applied as a batch and answered with the
// session state.
func (g GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	if _, err := g.sessions.Get(r.Context(), id); err != nil {
		fail(w, g.log, "unable to fetch session", err)
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Error("unable to upgrade")
		return
	}
	defer c.Close()

	log := g.log.WithField("session", id)
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("abnormal ws break")
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}
		text := strings.TrimSpace(string(message))
		log.Debugf("\t> %s", text)

		var reply any
		res, err := g.execute(r, id, text)
		if err != nil {
			if statusOf(err) == 0 {
				log.WithError(err).Error("unable to process commands")
				return
			}
			reply = wrapError(err)
		} else {
			reply = NewSessionDTO(res.Session, res.Revealed)
		}

		if err := c.SetWriteDeadline(time.Now().Add(g.ws.WriteTimeout)); err != nil {
			log.WithError(err).Error("unable to set write deadline")
			return
		}
		if err := c.WriteJSON(reply); err != nil {
			log.WithError(err).Error("unable to write json")
			return
		}
		log.Debug("\t< <session data>")
	}
}

func (g GameHandler) execute(r *http.Request, id uuid.UUID, text string) (*session.Result, error) {
	var cmds []session.Command
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := session.ParseCommand(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadCommand, err)
		}
		cmds = append(cmds, cmd)
	}
	return g.sessions.Execute(r.Context(), id, cmds...)
}
