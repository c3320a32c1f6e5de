package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/player"
)

var ErrBadAuthBody = errors.New("request body must contain url-encoded username and password")

type Auth struct {
	log     logrus.FieldLogger
	players player.Store
	cookies *config.Cookies
}

func NewAuth(log logrus.FieldLogger, players player.Store, cookies *config.Cookies) *Auth {
	return &Auth{
		log:     log,
		players: players,
		cookies: cookies,
	}
}

type PlayerInfo struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

func (a Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		a.log.Debug("no player claims, clearing cookies")
		a.cookies.Clear(w)
		sendJSON(w, a.log, http.StatusOK, Status{})
		return
	}

	a.log.Debug("refresh cookies")
	if err := a.cookies.Issue(w, claims.PlayerID, claims.Username); err != nil {
		fail(w, a.log, "unable to refresh cookies", err)
		return
	}
	sendJSON(w, a.log, http.StatusOK, Status{
		LoggedIn: true,
		Player:   &PlayerInfo{claims.PlayerID, claims.Username},
	})
}

func credentials(r *http.Request) (username, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", ErrBadAuthBody
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" {
		return "", "", ErrBadAuthBody
	}
	return username, password, nil
}

func (a Auth) login(w http.ResponseWriter, p *player.Player) {
	if err := a.cookies.Issue(w, p.PlayerID, p.Username); err != nil {
		fail(w, a.log, "unable to issue cookies", err)
		return
	}
	sendJSON(w, a.log, http.StatusOK, Status{
		LoggedIn: true,
		Player:   &PlayerInfo{p.PlayerID, p.Username},
	})
}

func (a Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		sendError(w, a.log, http.StatusBadRequest, err)
		return
	}
	hash, err := player.HashPassword(password)
	if err != nil {
		fail(w, a.log, "unable to hash password", err)
		return
	}
	p, err := a.players.CreatePlayer(r.Context(), username, hash)
	if err != nil {
		fail(w, a.log, "unable to create player", err)
		return
	}
	a.log.WithField("username", p.Username).Info("player registered")
	a.login(w, p)
}

func (a Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		sendError(w, a.log, http.StatusBadRequest, err)
		return
	}
	p, err := player.Authenticate(r.Context(), a.players, username, password)
	if err != nil {
		fail(w, a.log, "unable to authenticate", err)
		return
	}
	a.login(w, p)
}

func (a Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
