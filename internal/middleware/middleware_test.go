package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/config"
)

func TestWrapOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.NotFoundHandler(), mw("a"), mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/boards", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "handled request", entry.Message)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/v1/boards", entry.Data["uri"])
}

func TestAuth(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cookies := config.NewCookiesWith("", false, http.SameSiteLaxMode,
		config.NewJWTFromKeys(key, &key.PublicKey, time.Hour))

	var got *config.PlayerClaims
	h := Auth(cookies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PlayerClaims(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, got)

	issued := httptest.NewRecorder()
	require.NoError(t, cookies.Issue(issued, 3, "carol"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range issued.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, got)
	assert.Equal(t, "carol", got.Username)

	got = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth", Value: "bogus"})
	req.AddCookie(&http.Cookie{Name: "sign", Value: "bogus"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Nil(t, got)
	assert.NotEmpty(t, rec.Result().Cookies(), "broken cookies are cleared")
}
