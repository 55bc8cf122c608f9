package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const sessionIDKey contextKey = "session_id"

// SessionIDMiddleware extracts the session_id from the chi URL parameter
// and stores it in the request context.
func SessionIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "session_id")
		if sessionID == "" {
			BadRequest(w, "session_id is required")
			return
		}
		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID retrieves the session_id stored by SessionIDMiddleware.
func GetSessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}
