package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

// NewSessionStore creates the cookie store that carries the dashboard session id
func NewSessionStore(secret []byte, secure bool, maxAge time.Duration) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure, // HTTPS only in production
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
