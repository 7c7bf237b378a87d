package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, map[string]string{"error": message}, logger)
}

// ValidationErrorResponse is returned for rejected forms
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// WriteValidationError writes field-level messages with 422
func WriteValidationError(w http.ResponseWriter, fields map[string]string, logger *slog.Logger) {
	WriteJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
		Error:  "Invalid form",
		Fields: fields,
	}, logger)
}
