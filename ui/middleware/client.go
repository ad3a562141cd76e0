package middleware

import (
	"net/http"
	"time"

	"waterglobe/domain/core"
)

// ClientCookie carries the browser's client ID between requests.
const ClientCookie = "waterglobe_client"

// ClientHeader is the header the API reads the client ID from.
const ClientHeader = "X-Client-ID"

// EnsureClient makes sure every request carries a client ID so the API can
// scope render sessions to one browser. A missing cookie gets a fresh ID.
func EnsureClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(ClientHeader) == "" {
			id := ""
			if cookie, err := r.Cookie(ClientCookie); err == nil {
				if parsed, err := core.ParseSessionID(cookie.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = core.NewID().String()
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(30 * 24 * time.Hour),
				})
			}
			r.Header.Set(ClientHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}
