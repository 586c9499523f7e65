package http

import (
	"encoding/json"
	"net/http"
)

type apiError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// fail maps err to a status, logs it and writes the error body.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	statusCode, code, message := mapError(err)
	fields := []any{
		"operation", operation,
		"outcome", "failure",
		"status_code", statusCode,
		"error_code", code,
		"request_id", requestIDFromContext(r.Context()),
		"error", err,
	}
	if statusCode >= 500 {
		httpLogger().ErrorContext(r.Context(), "http operation failed", fields...)
	} else {
		httpLogger().WarnContext(r.Context(), "http operation failed", fields...)
	}
	writeError(w, statusCode, code, message)
}
