package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKeyHeader carries the key for field devices that cannot set
// Authorization, such as the NMEA bridge on older handsets.
const APIKeyHeader = "X-API-Key"

// exemptPaths bypass authentication so probes and scrapers need no key.
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// APIKeyAuth returns a middleware that accepts "Authorization: Bearer <key>"
// or an X-API-Key header. With no non-empty keys configured it is a
// pass-through.
func APIKeyAuth(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := presentedKey(r)
			if msg == "" && !knownKey(keys, token) {
				msg = "invalid api key"
			}
			if msg != "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="fieldaim"`)
				writeError(w, http.StatusUnauthorized, ErrorResponseCodeUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// presentedKey extracts the key from the request. A non-empty message
// describes why none could be read.
func presentedKey(r *http.Request) (string, string) {
	if k := r.Header.Get(APIKeyHeader); k != "" {
		return k, ""
	}
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing authorization header"
	}
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(auth, bearerPrefix) {
		return "", "authorization header must use Bearer scheme"
	}
	return auth[len(bearerPrefix):], ""
}

// knownKey compares against every key in constant time.
func knownKey(keys [][]byte, token string) bool {
	t := []byte(token)
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, t)
	}
	return found == 1
}
