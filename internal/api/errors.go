package api

import "net/http"

// Stable error codes surfaced in envelopes so the UI can branch without
// string-matching messages.
const (
	CodeBadRequest    = 1400
	CodeNotFound      = 1404
	CodeConfiguration = 1460
	CodeGeneration    = 1461
	CodeInternal      = 1500
)

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, msg string) {
	Fail(w, http.StatusBadRequest, CodeBadRequest, msg)
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, msg string) {
	Fail(w, http.StatusNotFound, CodeNotFound, msg)
}

// ConfigurationError writes a 422 error for missing keys or unrecognized
// provider identifiers; the UI points the user at settings.
func ConfigurationError(w http.ResponseWriter, msg string) {
	Fail(w, http.StatusUnprocessableEntity, CodeConfiguration, msg)
}

// GenerationFailed writes a 502 error for terminal provider failures.
func GenerationFailed(w http.ResponseWriter, msg string) {
	Fail(w, http.StatusBadGateway, CodeGeneration, msg)
}

// Internal writes a 500 error response.
func Internal(w http.ResponseWriter, msg string) {
	Fail(w, http.StatusInternalServerError, CodeInternal, msg)
}
