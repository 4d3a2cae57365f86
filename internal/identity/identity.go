// Package identity provides anonymous per-browser learner identity.
// Progress and answer history are keyed by a cookie-scoped learner id, so
// no account or login is required.
package identity

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// LearnerCookieName is the cookie carrying the anonymous learner id.
	LearnerCookieName = "spamtutor_learner_id"

	learnerCookieMaxAge = 180 * 24 * time.Hour
)

type contextKey int

const learnerIDKey contextKey = iota

// LearnerIDFromContext extracts the learner id from the request context.
func LearnerIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(learnerIDKey).(string); ok {
		return v
	}
	return ""
}

// WithLearnerID returns a context carrying the learner id. Exposed for
// handler tests.
func WithLearnerID(ctx context.Context, learnerID string) context.Context {
	return context.WithValue(ctx, learnerIDKey, learnerID)
}

func isValidLearnerID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Middleware assigns each browser a stable anonymous learner id via cookie
// and places it on the request context. The cookie is refreshed on every
// request to extend its lifetime.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			learnerID := ""
			if c, err := r.Cookie(LearnerCookieName); err == nil && isValidLearnerID(c.Value) {
				learnerID = c.Value
			}
			if learnerID == "" {
				learnerID = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     LearnerCookieName,
				Value:    learnerID,
				Path:     "/",
				MaxAge:   int(learnerCookieMaxAge.Seconds()),
				Expires:  time.Now().Add(learnerCookieMaxAge),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   !isDev,
			})

			next.ServeHTTP(w, r.WithContext(WithLearnerID(r.Context(), learnerID)))
		})
	}
}
