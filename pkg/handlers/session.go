package handlers

import (
	"crypto/sha1"
	"net/http"
	"os"
	"strconv"

	"golang.org/x/crypto/pbkdf2"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/pshannon/minustide/pkg/lowtide"
	"github.com/pshannon/minustide/pkg/stations"
)

const (
	sessionName         = "minus-tides"
	sessionStationKey   = "station"
	sessionThresholdKey = "threshold"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.
)

var store = &sessions.CookieStore{
	Codecs: securecookie.CodecsFromPairs(
		getSessionKey(),
		getEncryptionKey(),
	),
	Options: &sessions.Options{
		Path:     "/",
		MaxAge:   defaultMaxAge,
		Secure:   true,
		HttpOnly: true,
	},
}

func init() {
	store.MaxAge(defaultMaxAge)
}

// prefsFromSession recovers the visitor's last station and threshold. The
// cookie is the only place these live; the server keeps no visitor state.
func prefsFromSession(s *sessions.Session) (stations.Station, float64) {
	station := stations.Default
	if id, ok := s.Values[sessionStationKey].(string); ok {
		if st, found := stations.ByID(id); found {
			station = st
		}
	}
	threshold := lowtide.DefaultThreshold
	if v, ok := s.Values[sessionThresholdKey].(float64); ok {
		threshold = v
	}
	return station, threshold
}

// rememberPrefs writes the selection back to the session cookie.
func rememberPrefs(w http.ResponseWriter, r *http.Request, s *sessions.Session, station stations.Station, threshold float64) {
	s.Values[sessionStationKey] = station.ID
	s.Values[sessionThresholdKey] = threshold
	// A failed save only loses the preference, never the page.
	s.Save(r, w)
}

// getSessionKey returns a key to authenticate session cookies defined in
// the environment. If it is not set, it uses a compile-time default.
func getSessionKey() []byte {
	defaultKey := []byte("deadbeef")
	if key := os.Getenv("SESSION_KEY"); key != "" {
		return []byte(key)
	}
	return defaultKey
}

func getEncryptionKey() []byte {
	password := "deadbeef"
	if fromEnv := os.Getenv("ENCRYPTION_KEY"); fromEnv != "" {
		password = fromEnv
	}
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}

func parseFloatOr(s string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return fallback
}

func parseIntOr(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return fallback
}
