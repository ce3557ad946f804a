// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// RespondJSON writes data as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes {"detail": err.Error()}.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	RespondDetail(w, logger, status, err.Error(), err)
}

// RespondDetail writes a caller-facing detail message that may differ from
// the logged error. Server errors log at error level, client errors at warn.
func RespondDetail(w http.ResponseWriter, logger *slog.Logger, status int, detail string, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}
	RespondJSON(w, status, ErrorResponse{Detail: detail})
}
