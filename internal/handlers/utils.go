package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"portfolio-gallery/internal/gallery"
	"portfolio-gallery/internal/logging"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// errorStatus maps controller errors to an HTTP status.
func errorStatus(err error) int {
	if errors.Is(err, gallery.ErrInvalidSettings) || errors.Is(err, errUnknownAction) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
