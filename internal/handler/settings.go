package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leca/prompt-studio/internal/api"
	"github.com/leca/prompt-studio/internal/config"
)

// settingsView is the wire form of the settings document. The stored API
// key never leaves the process; only its presence is reported.
type settingsView struct {
	APIProvider string `json:"api_provider"`
	DarkMode    bool   `json:"dark_mode"`
	APIKeySet   bool   `json:"api_key_set"`
}

func viewOfSettings(s config.Settings) settingsView {
	return settingsView{
		APIProvider: s.APIProvider,
		DarkMode:    s.DarkMode,
		APIKeySet:   s.APIKey != "",
	}
}

// GetSettings handles GET /v1/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	api.OK(w, http.StatusOK, viewOfSettings(h.Settings.Current()))
}

// UpdateSettings handles PUT /v1/settings. The document is replaced as a
// whole; an absent api_key field keeps the stored key, an empty one clears
// it.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		APIKey      *string `json:"api_key"`
		APIProvider string  `json:"api_provider"`
		DarkMode    bool    `json:"dark_mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.BadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	provider := strings.ToLower(strings.TrimSpace(body.APIProvider))
	switch provider {
	case "openai", "stability", "gemini":
	default:
		api.BadRequest(w, "api_provider must be one of openai, stability, gemini")
		return
	}

	next := config.Settings{
		APIKey:      h.Settings.Current().APIKey,
		APIProvider: provider,
		DarkMode:    body.DarkMode,
	}
	if body.APIKey != nil {
		next.APIKey = strings.TrimSpace(*body.APIKey)
	}

	if err := h.Settings.Update(next); err != nil {
		slog.Error("failed to save settings", "error", err)
		api.Internal(w, "failed to save settings")
		return
	}
	api.OK(w, http.StatusOK, viewOfSettings(next))
}
