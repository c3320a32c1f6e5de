package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/board"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/player"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func sendJSON(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func sendError(w http.ResponseWriter, log logrus.FieldLogger, status int, err error) {
	sendJSON(w, log, status, wrapError(err))
}

// statusOf maps domain errors to a status code; zero means unexpected.
func statusOf(err error) int {
	var multi schema.MultiError
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, board.ErrInvalidBoard),
		errors.Is(err, mines.ErrIndexOutOfRange),
		errors.Is(err, ErrBadCommand),
		errors.Is(err, ErrBadSessionID),
		errors.As(err, &multi):
		return http.StatusBadRequest
	case errors.Is(err, player.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, player.ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, player.ErrPasswordTooLong):
		return http.StatusBadRequest
	}
	return 0
}

// fail answers with the status of a known error, or logs and answers 500.
func fail(w http.ResponseWriter, log logrus.FieldLogger, msg string, err error) {
	if status := statusOf(err); status != 0 {
		sendError(w, log, status, err)
		return
	}
	log.WithError(err).Error(msg)
	sendError(w, log, http.StatusInternalServerError, errors.New("internal error"))
}
