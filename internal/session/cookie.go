package session

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const CookieName = "aulavid_session"

// CookieStore is a Store scoped to one request. Reads come from the
// incoming cookie; every Set writes a fresh Set-Cookie header.
type CookieStore struct {
	w      http.ResponseWriter
	codec  *Codec
	secure bool
	values map[string]string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, codec *Codec, secure bool) *CookieStore {
	s := &CookieStore{w: w, codec: codec, secure: secure, values: map[string]string{}}

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return s
	}
	values, err := codec.Decode(cookie.Value)
	if err != nil {
		slog.Debug("discarding unreadable session cookie", "error", err)
		return s
	}
	s.values = values
	return s
}

// CookieFactory returns a constructor suitable for auth.Provider.
func CookieFactory(codec *Codec, secure bool) func(http.ResponseWriter, *http.Request) Store {
	return func(w http.ResponseWriter, r *http.Request) Store {
		return NewCookieStore(w, r, codec, secure)
	}
}

func (s *CookieStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *CookieStore) Set(key, value string) {
	if value == "" {
		delete(s.values, key)
	} else {
		s.values[key] = value
	}
	s.write()
}

func (s *CookieStore) write() {
	// Drop any Set-Cookie written by an earlier Set in this response.
	header := s.w.Header()
	var kept []string
	for _, line := range header.Values("Set-Cookie") {
		if !isSessionCookieLine(line) {
			kept = append(kept, line)
		}
	}
	header.Del("Set-Cookie")
	for _, line := range kept {
		header.Add("Set-Cookie", line)
	}

	value, err := s.codec.Encode(s.values)
	if err != nil {
		slog.Error("failed to encode session cookie", "error", err)
		return
	}

	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.codec.MaxAge() / time.Second),
	})
}

func isSessionCookieLine(line string) bool {
	return strings.HasPrefix(line, CookieName+"=")
}
