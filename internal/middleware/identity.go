package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/swasthya-ai/swasthya/internal/session"
)

type contextKey string

// UserKey holds the active free-text user identifier. It is a
// convenience label carried on the URL, not an authenticated principal.
const UserKey contextKey = "user_id"

// Identity hydrates the active user identifier from the request's query
// string into the context. Requests without one stay anonymous; handlers
// that need an identifier enforce that themselves.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromQuery(r.URL.Query())
		if sess.State() == session.Active {
			ctx := context.WithValue(r.Context(), UserKey, sess.UserID())
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext extracts the active user identifier, or "".
func GetUserFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(UserKey).(string); ok {
		return id
	}
	return ""
}

// SanitizeString removes null bytes and control characters from free-text input.
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
