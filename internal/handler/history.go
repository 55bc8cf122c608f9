package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leca/prompt-studio/internal/api"
	"github.com/leca/prompt-studio/internal/database"
	"github.com/leca/prompt-studio/internal/model"
)

// ListHistory handles GET /v1/history. With a q parameter it searches
// prompts for the substring, otherwise it lists the most recent records.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := database.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	var (
		records []*model.ImageRecord
		err     error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		records, err = h.DB.Search(q, limit)
	} else {
		records, err = h.DB.ListRecent(limit)
	}
	if err != nil {
		slog.Error("failed to list history", "error", err)
		api.Internal(w, "failed to list history")
		return
	}

	// Ensure non-nil slice for JSON serialisation.
	if records == nil {
		records = []*model.ImageRecord{}
	}
	api.OK(w, http.StatusOK, map[string]interface{}{"records": records})
}

// GetHistory handles GET /v1/history/{id}.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.recordFromURL(w, r)
	if !ok {
		return
	}
	api.OK(w, http.StatusOK, rec)
}

// GetHistoryFile handles GET /v1/history/{id}/file, serving the stored
// image bytes.
func (h *Handler) GetHistoryFile(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.recordFromURL(w, r)
	if !ok {
		return
	}

	// The row can outlive the file; report that distinctly.
	if _, err := os.Stat(rec.Filepath); err != nil {
		api.NotFound(w, "image file is missing from disk")
		return
	}
	http.ServeFile(w, r, rec.Filepath)
}

// DeleteHistory handles DELETE /v1/history/{id}. The row is removed first;
// the underlying file is deleted best-effort so the catalog and the disk
// stay in step.
func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.recordFromURL(w, r)
	if !ok {
		return
	}

	removed, err := h.DB.DeleteRecord(rec.ID)
	if err != nil {
		slog.Error("failed to delete record", "record_id", rec.ID, "error", err)
		api.Internal(w, "failed to delete record")
		return
	}
	if !removed {
		api.NotFound(w, "record not found")
		return
	}

	if err := os.Remove(rec.Filepath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove image file", "path", rec.Filepath, "error", err)
	}

	api.OK(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

func (h *Handler) recordFromURL(w http.ResponseWriter, r *http.Request) (*model.ImageRecord, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.BadRequest(w, "invalid record id")
		return nil, false
	}

	rec, err := h.DB.GetRecord(id)
	if errors.Is(err, database.ErrNotFound) {
		api.NotFound(w, "record not found")
		return nil, false
	}
	if err != nil {
		slog.Error("failed to fetch record", "record_id", id, "error", err)
		api.Internal(w, "failed to fetch record")
		return nil, false
	}
	return rec, true
}
