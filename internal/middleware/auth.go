package middleware

import (
	"context"
	"net/http"

	"github.com/vancomm/minesweeper-engine/internal/config"
)

type ctxKey int

const ctxPlayerClaims ctxKey = iota

// PlayerClaims returns the claims of the logged-in player, if any.
func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(ctxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}

func WithPlayerClaims(ctx context.Context, claims *config.PlayerClaims) context.Context {
	return context.WithValue(ctx, ctxPlayerClaims, claims)
}

// Auth attaches player claims from the auth cookies to the request context.
// Requests with broken cookies go through anonymously and get the cookies
// cleared.
func Auth(cookies *config.Cookies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if err != nil {
				if err != http.ErrNoCookie {
					cookies.Clear(w)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPlayerClaims(r.Context(), claims)))
		})
	}
}
