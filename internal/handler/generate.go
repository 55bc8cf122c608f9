package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/leca/prompt-studio/internal/api"
	"github.com/leca/prompt-studio/internal/model"
	"github.com/leca/prompt-studio/internal/provider"
)

// Default target size when the request leaves it out, matching the UI's
// initial selection.
const (
	defaultWidth  = 512
	defaultHeight = 512
)

// Generate handles POST /v1/generate. It blocks for the duration of the
// provider call (including retries) and, on success, saves the image under
// the generated-images directory and appends a history record.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.BadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		api.BadRequest(w, "prompt is required")
		return
	}
	if req.Width <= 0 {
		req.Width = defaultWidth
	}
	if req.Height <= 0 {
		req.Height = defaultHeight
	}

	img, err := h.Generator.Generate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrAPIKeyRequired),
			errors.Is(err, provider.ErrUnknownProvider):
			api.ConfigurationError(w, err.Error())
		default:
			api.GenerationFailed(w, err.Error())
		}
		return
	}

	path, err := h.Saver.Save(img, h.Config.GeneratedDir, req.Prompt)
	if err != nil {
		slog.Error("failed to save generated image", "error", err)
		api.Internal(w, "failed to save generated image")
		return
	}

	rec := &model.ImageRecord{
		Prompt:    req.Prompt,
		Filename:  filepath.Base(path),
		Filepath:  path,
		Provider:  strings.ToLower(h.Settings.Current().APIProvider),
		CreatedAt: time.Now(),
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
	}
	if _, err := h.DB.InsertRecord(rec); err != nil {
		slog.Error("failed to record generated image", "path", path, "error", err)
		api.Internal(w, "failed to record generated image")
		return
	}

	slog.Info("generated image",
		"provider", rec.Provider, "record_id", rec.ID,
		"width", rec.Width, "height", rec.Height)

	api.OK(w, http.StatusCreated, rec)
}
