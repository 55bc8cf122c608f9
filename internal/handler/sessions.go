package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/leca/prompt-studio/internal/api"
	"github.com/leca/prompt-studio/internal/editor"
	"github.com/leca/prompt-studio/internal/model"
	"github.com/leca/prompt-studio/internal/session"
)

// sessionView is the wire representation of an edit session.
type sessionView struct {
	ID       string        `json:"id"`
	RecordID int64         `json:"record_id,omitempty"`
	Prompt   string        `json:"prompt,omitempty"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	History  session.State `json:"history"`
}

func viewOf(s *session.Session) sessionView {
	cur := s.Current()
	return sessionView{
		ID:       s.ID,
		RecordID: s.RecordID,
		Prompt:   s.Prompt,
		Width:    cur.Bounds().Dx(),
		Height:   cur.Bounds().Dy(),
		History:  s.State(),
	}
}

// OpenSession handles POST /v1/sessions. The image referenced by record_id
// is loaded from disk and becomes the session's first snapshot.
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RecordID int64 `json:"record_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.BadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	rec, err := h.DB.GetRecord(body.RecordID)
	if err != nil {
		api.NotFound(w, "record not found")
		return
	}

	img, err := imaging.Open(rec.Filepath)
	if err != nil {
		slog.Error("failed to open image file", "path", rec.Filepath, "error", err)
		api.NotFound(w, "image file could not be opened")
		return
	}

	s := h.Sessions.Open(img, rec.ID, rec.Prompt)
	slog.Info("opened edit session", "session_id", s.ID, "record_id", rec.ID)
	api.OK(w, http.StatusCreated, viewOf(s))
}

// GetSession handles GET /v1/sessions/{session_id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromContext(w, r)
	if !ok {
		return
	}
	api.OK(w, http.StatusOK, viewOf(s))
}

// GetSessionImage handles GET /v1/sessions/{session_id}/image, returning
// the operative snapshot as PNG.
func (h *Handler) GetSessionImage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromContext(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, s.Current()); err != nil {
		slog.Error("failed to encode session image", "session_id", s.ID, "error", err)
		api.Internal(w, "failed to encode image")
		return
	}
	api.WritePNG(w, buf.Bytes())
}

// editRequest selects one transform and its parameters.
type editRequest struct {
	Op     string      `json:"op"`
	Box    *editor.Box `json:"box,omitempty"`
	Angle  float64     `json:"angle,omitempty"`
	Expand *bool       `json:"expand,omitempty"`
	Width  int         `json:"width,omitempty"`
	Height int         `json:"height,omitempty"`
	Factor float64     `json:"factor,omitempty"`
}

// editResult reports whether the edit changed the image. A rejected edit is
// not an HTTP error: the image stays as it was and the reason is surfaced
// as status text.
type editResult struct {
	Applied bool        `json:"applied"`
	Reason  string      `json:"reason,omitempty"`
	Session sessionView `json:"session"`
}

// Edit handles POST /v1/sessions/{session_id}/edit. A transform that cannot
// be applied leaves the session unchanged; it never aborts the host flow.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromContext(w, r)
	if !ok {
		return
	}

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.BadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	out, err := applyEdit(s.Current(), req)
	if errors.Is(err, errUnknownOp) {
		api.BadRequest(w, err.Error())
		return
	}
	if err != nil {
		slog.Warn("edit left image unchanged",
			"session_id", s.ID, "op", req.Op, "reason", err)
		api.OK(w, http.StatusOK, editResult{
			Applied: false,
			Reason:  err.Error(),
			Session: viewOf(s),
		})
		return
	}

	s.Push(out)
	api.OK(w, http.StatusOK, editResult{Applied: true, Session: viewOf(s)})
}

var errUnknownOp = errors.New("unknown edit op")

func applyEdit(img image.Image, req editRequest) (image.Image, error) {
	switch req.Op {
	case "crop":
		if req.Box == nil {
			return img, errors.New("crop requires a box")
		}
		return editor.Crop(img, *req.Box)
	case "rotate":
		expand := true
		if req.Expand != nil {
			expand = *req.Expand
		}
		return editor.Rotate(img, req.Angle, expand)
	case "flip_h":
		return editor.FlipHorizontal(img)
	case "flip_v":
		return editor.FlipVertical(img)
	case "resize":
		return editor.Resize(img, req.Width, req.Height)
	case "brightness":
		return editor.AdjustBrightness(img, req.Factor)
	default:
		return img, errUnknownOp
	}
}

// Undo handles POST /v1/sessions/{session_id}/undo. At the original image
// it is a no-op, not an error.
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromContext(w, r)
	if !ok {
		return
	}
	moved := s.Undo()
	api.OK(w, http.StatusOK, map[string]interface{}{"moved": moved, "session": viewOf(s)})
}

// Redo handles POST /v1/sessions/{session_id}/redo.
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromContext(w, r)
	if !ok {
		return
	}
	moved := s.Redo()
	api.OK(w, http.StatusOK, map[string]interface{}{"moved": moved, "session": viewOf(s)})
}

// SaveSession handles POST /v1/sessions/{session_id}/save. The operative
// snapshot is written into the dated save directory and recorded in the
// catalog under the "local-edit" provider tag.
func (h *Handler) SaveSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromContext(w, r)
	if !ok {
		return
	}

	var body struct {
		Hint string `json:"hint"`
	}
	// The body is optional; an absent hint falls back to the prompt.
	_ = json.NewDecoder(r.Body).Decode(&body)
	hint := body.Hint
	if hint == "" {
		hint = s.Prompt
	}
	if hint == "" {
		hint = "edited"
	}

	now := time.Now()
	cur := s.Current()
	path, err := h.Saver.Save(cur, h.Config.SaveDir(now), hint)
	if err != nil {
		slog.Error("failed to save edited image", "session_id", s.ID, "error", err)
		api.Internal(w, "failed to save image")
		return
	}

	rec := &model.ImageRecord{
		Prompt:    s.Prompt,
		Filename:  filepath.Base(path),
		Filepath:  path,
		Provider:  model.ProviderLocalEdit,
		CreatedAt: now,
		Width:     cur.Bounds().Dx(),
		Height:    cur.Bounds().Dy(),
	}
	if _, err := h.DB.InsertRecord(rec); err != nil {
		slog.Error("failed to record edited image", "path", path, "error", err)
		api.Internal(w, "failed to record saved image")
		return
	}

	slog.Info("saved edited image", "session_id", s.ID, "record_id", rec.ID, "path", path)
	api.OK(w, http.StatusCreated, rec)
}

// CloseSession handles DELETE /v1/sessions/{session_id}.
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	id := api.GetSessionID(r.Context())
	if !h.Sessions.Close(id) {
		api.NotFound(w, "session not found")
		return
	}
	api.OK(w, http.StatusOK, map[string]interface{}{"closed": true})
}

func (h *Handler) sessionFromContext(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.Sessions.Get(api.GetSessionID(r.Context()))
	if err != nil {
		api.NotFound(w, "session not found")
		return nil, false
	}
	return s, true
}
