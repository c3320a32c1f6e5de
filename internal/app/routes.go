package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/go-chi/chi/v5"

	"github.com/vancomm/minesweeper-engine/internal/handlers"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	router := chi.NewRouter()
	router.Use(middleware.Logging(a.log), middleware.Cors())
	if a.cookies != nil {
		router.Use(middleware.Auth(a.cookies))
	}

	game := handlers.NewGameHandler(a.log, a.sessions, a.leaderboard, a.ws)

	router.Route("/v1", func(r chi.Router) {
		r.Get("/boards", game.Boards)
		r.Get("/leaderboard", game.Leaderboard)

		r.Post("/game", game.NewGame)
		r.Route("/game/{id}", func(r chi.Router) {
			r.Get("/", game.Fetch)
			r.Post("/reveal", game.Reveal)
			r.Post("/mark", game.Mark)
			r.Post("/chord", game.Chord)
			r.Post("/forfeit", game.Forfeit)
			r.Get("/connect", game.Connect)
		})

		if a.cookies == nil {
			return
		}
		auth := handlers.NewAuth(a.log, a.players, a.cookies)
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
		r.Get("/status", auth.Status)
	})

	a.router = router
}
