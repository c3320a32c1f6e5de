package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	claimsCookie    = "auth"
	signatureCookie = "sign"
)

// Cookies stores a player token in two cookies: the readable header and
// payload, and the http-only signature.
type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode
	case "LAX":
		return http.SameSiteLaxMode
	case "NONE":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

// NewCookies reads COOKIES_DOMAIN, COOKIES_SECURE and COOKIES_SAMESITE.
func NewCookies(j *JWT) (*Cookies, error) {
	domain, err := lookup("COOKIES_DOMAIN")
	if err != nil {
		return nil, err
	}
	c := &Cookies{
		Domain:   domain,
		Secure:   os.Getenv("COOKIES_SECURE") != "0",
		SameSite: parseSameSite(os.Getenv("COOKIES_SAMESITE")),
		jwt:      j,
	}
	return c, nil
}

func NewCookiesWith(domain string, secure bool, sameSite http.SameSite, j *JWT) *Cookies {
	return &Cookies{Domain: domain, Secure: secure, SameSite: sameSite, jwt: j}
}

func (c *Cookies) cookie(name, value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: name == signatureCookie,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(claimsCookie, "delete", time.Time{}, -1))
	http.SetCookie(w, c.cookie(signatureCookie, "delete", time.Time{}, -1))
}

// Issue signs a fresh token for the player and sets both cookies.
func (c *Cookies) Issue(w http.ResponseWriter, playerID int64, username string) error {
	token, err := c.jwt.Sign(playerID, username)
	if err != nil {
		return fmt.Errorf("unable to sign token: %w", err)
	}
	i := strings.LastIndexByte(token, '.')
	if i < 0 {
		return fmt.Errorf("malformed JWT token generated")
	}
	expires := time.Now().Add(c.jwt.Lifetime())
	http.SetCookie(w, c.cookie(claimsCookie, token[:i], expires, 0))
	http.SetCookie(w, c.cookie(signatureCookie, token[i+1:], expires, 0))
	return nil
}

func (c *Cookies) ParsePlayerClaims(r *http.Request) (*PlayerClaims, error) {
	claims, err := r.Cookie(claimsCookie)
	if err != nil {
		return nil, err
	}
	signature, err := r.Cookie(signatureCookie)
	if err != nil {
		return nil, err
	}
	return c.jwt.Parse(claims.Value + "." + signature.Value)
}
