package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/trackmyhealth/healthtrack/internal/models"
)

type contextKey string

const sessionKey contextKey = "session"

// TokenParser validates a bearer token and rebuilds the caller's session
type TokenParser interface {
	ParseToken(token string) (*models.Session, error)
}

// Authenticate middleware resolves the Authorization header into a session
// stored on the request context
func Authenticate(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			sess, err := parser.ParseToken(token)
			if err != nil {
				log.Warn().Err(err).Msg("Token rejected")
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole middleware rejects callers whose role is not listed
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSession(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if sess.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Insufficient role", http.StatusForbidden)
		})
	}
}

// GetSession extracts the caller's session from the request context
func GetSession(ctx context.Context) (*models.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*models.Session)
	return sess, ok
}
