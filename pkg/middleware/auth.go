package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/multimodal-labs/inference-gateway/pkg/logging"
)

// APIKeyHeader is the request header checked against the configured shared
// secret. Header lookup is case-insensitive per net/http canonicalization.
const APIKeyHeader = "x-api-key"

// AuthMiddleware enforces a shared-secret header check on every request except
// those whose path appears in skipPaths. If no secret is configured, the check
// is disabled entirely and a single warning is emitted at construction time
// rather than once per request.
func AuthMiddleware(log logging.Logger, secret string, skipPaths []string, next http.Handler) http.Handler {
	if secret == "" {
		log.Warnln("API_KEY not configured; endpoints are unprotected")
		return next
	}

	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := skip[strings.TrimRight(r.URL.Path, "/")]; ok {
			next.ServeHTTP(w, r)
			return
		}

		provided := r.Header.Get(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Unauthorized - invalid API key"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
