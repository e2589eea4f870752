package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sundayezeilo/linkboard/internal/httpx"
)

// Middleware rejects requests without a valid bearer token and places
// the verified user ID in the request context for handlers downstream.
func Middleware(verifier *Verifier, logger *slog.Logger) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized,
					"UNAUTHORIZED", "missing or invalid authorization header")
				return
			}

			userID, err := verifier.Verify(tokenString)
			if err != nil {
				logger.WarnContext(r.Context(), "token verification failed",
					"request_id", httpx.GetRequestID(r.Context()),
					"error", err.Error(),
				)
				httpx.WriteError(w, http.StatusUnauthorized,
					"UNAUTHORIZED", "missing or invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
