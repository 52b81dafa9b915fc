package prefs

import (
	"context"
	"net/http"
	"time"
)

// CookieMaxAge is how long preference cookies live in the browser.
const CookieMaxAge = 365 * 24 * time.Hour

// CookieStore persists each key as a browser cookie of the same name. It is
// bound to one request/response pair.
//
// Cookies are not HttpOnly so the page script can read the theme before
// first paint.
type CookieStore struct {
	w       http.ResponseWriter
	r       *http.Request
	written map[string]string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{w: w, r: r, written: make(map[string]string)}
}

// Get returns values set earlier in the same request before falling back to
// the request cookies.
func (s *CookieStore) Get(_ context.Context, key string) (string, error) {
	if value, ok := s.written[key]; ok {
		return value, nil
	}

	cookie, err := s.r.Cookie(key)
	if err != nil {
		return "", ErrNotFound
	}
	return cookie.Value, nil
}

func (s *CookieStore) Set(_ context.Context, key, value string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: false,
	})
	s.written[key] = value
	return nil
}
