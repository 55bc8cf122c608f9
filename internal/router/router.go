package router

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/leca/prompt-studio/internal/api"
	"github.com/leca/prompt-studio/internal/config"
	"github.com/leca/prompt-studio/internal/database"
	"github.com/leca/prompt-studio/internal/handler"
	"github.com/leca/prompt-studio/internal/provider"
	"github.com/leca/prompt-studio/internal/session"
	"github.com/leca/prompt-studio/internal/storage"
)

// Server holds the application dependencies and HTTP router.
type Server struct {
	DB     database.Database
	Config *config.Config
	Router chi.Router
}

// New creates a new Server with a fully configured chi router.
func New(db database.Database, saver storage.Saver, cfg *config.Config,
	settings *config.Store, gen provider.Generator, sessions *session.Manager) *Server {

	s := &Server{DB: db, Config: cfg}

	h := &handler.Handler{
		DB:        db,
		Saver:     saver,
		Config:    cfg,
		Settings:  settings,
		Generator: gen,
		Sessions:  sessions,
	}

	r := chi.NewRouter()

	// CORS — must be before other middleware to handle preflight OPTIONS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check.
	r.Get("/health", s.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/generate", h.Generate)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.ListHistory)
			r.Get("/{id}", h.GetHistory)
			r.Get("/{id}/file", h.GetHistoryFile)
			r.Delete("/{id}", h.DeleteHistory)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.OpenSession)

			r.Route("/{session_id}", func(r chi.Router) {
				r.Use(api.SessionIDMiddleware)

				r.Get("/", h.GetSession)
				r.Delete("/", h.CloseSession)
				r.Get("/image", h.GetSessionImage)
				r.Post("/edit", h.Edit)
				r.Post("/undo", h.Undo)
				r.Post("/redo", h.Redo)
				r.Post("/save", h.SaveSession)
			})
		})

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)
	})

	s.Router = r
	return s
}

// Health returns a simple health-check response.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		log.Printf("Health: failed to encode response: %v", err)
	}
}
