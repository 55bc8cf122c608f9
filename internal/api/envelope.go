package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Response is the JSON envelope returned by every endpoint.
type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error *Error      `json:"error,omitempty"`
}

// Error carries a machine-readable code and a human-readable message.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OK writes a success envelope with the given HTTP status.
func OK(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, Response{Data: data})
}

// Fail writes an error envelope with the given HTTP status.
func Fail(w http.ResponseWriter, status, code int, message string) {
	WriteJSON(w, status, Response{Error: &Error{Code: code, Message: message}})
}

// WriteJSON serialises resp as JSON and writes it to w with the given HTTP
// status code.
func WriteJSON(w http.ResponseWriter, status int, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WritePNG writes raw PNG bytes with the right content type.
func WritePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write png response", "error", err)
	}
}
