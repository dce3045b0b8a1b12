package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// publicRoutes answer without an API key so probes and scrapers need no secret.
var publicRoutes = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware guards the search routes with static API keys sent
// as "Authorization: Bearer <key>". With no non-empty key configured it is
// a no-op.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
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
			if _, ok := publicRoutes[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			key, msg := bearerKey(r.Header.Get("Authorization"))
			if msg == "" && !knownKey(keys, key) {
				msg = "invalid api key"
			}
			if msg != "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="edsapi"`)
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerKey extracts the credential. The scheme name is case-insensitive.
func bearerKey(header string) (string, string) {
	if header == "" {
		return "", "missing authorization header"
	}
	scheme, key, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "authorization header must use Bearer scheme"
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "empty bearer token"
	}
	return key, ""
}

func knownKey(keys [][]byte, key string) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, []byte(key))
	}
	return found == 1
}
