package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName identifies the browser to the session registry. It
// carries no credential; the bearer token stays server-side.
const SessionCookieName = "console_sid"

func newSessionCookie(id string, secure bool, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// sessionIDFrom returns the id in the session cookie when it is well formed.
func sessionIDFrom(r *http.Request) (string, bool) {
	ck, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(ck.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
