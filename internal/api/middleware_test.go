package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestSessionIDMiddleware_ExtractsSessionID(t *testing.T) {
	var captured string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetSessionID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := chi.NewRouter()
	r.Route("/sessions/{session_id}", func(r chi.Router) {
		r.Use(SessionIDMiddleware)
		r.Get("/image", inner)
	})

	req := httptest.NewRequest(http.MethodGet, "/sessions/abc-123/image", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", captured)
}

func TestSessionIDMiddleware_MissingSessionID(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Mount without the {session_id} param to simulate a missing value.
	r := chi.NewRouter()
	r.With(SessionIDMiddleware).Get("/no-session", inner)

	req := httptest.NewRequest(http.MethodGet, "/no-session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSessionID_EmptyContext(t *testing.T) {
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	assert.Equal(t, "", GetSessionID(ctx))
}
