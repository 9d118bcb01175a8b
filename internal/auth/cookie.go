package auth

import (
	"net/http"
	"time"
)

// CookieName is the session cookie carrying the JWT.
const CookieName = "auth_token"

// SessionCookie builds the HTTP-only session cookie set on login.
func SessionCookie(token string) http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie overwrites the session cookie with an already-expired
// placeholder. Used by logout.
func ExpiredCookie() http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    "deleted",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
