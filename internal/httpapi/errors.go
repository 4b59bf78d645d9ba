package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"example.com/scoreboard/internal/scoreboard"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, ErrorResponse{Code: errCode, Message: msg})
}

// writeServiceError maps scoreboard errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scoreboard.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, scoreboard.ErrConflict):
		writeError(w, http.StatusConflict, "duplicate_match", err.Error())
	case errors.Is(err, scoreboard.ErrNotAllowed):
		writeError(w, http.StatusUnprocessableEntity, "not_allowed", err.Error())
	case errors.Is(err, scoreboard.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
