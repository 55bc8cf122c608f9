package handler

import (
	"github.com/leca/prompt-studio/internal/config"
	"github.com/leca/prompt-studio/internal/database"
	"github.com/leca/prompt-studio/internal/provider"
	"github.com/leca/prompt-studio/internal/session"
	"github.com/leca/prompt-studio/internal/storage"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	DB        database.Database
	Saver     storage.Saver
	Config    *config.Config
	Settings  *config.Store
	Generator provider.Generator
	Sessions  *session.Manager
}
