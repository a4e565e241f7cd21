package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cghidalgos/presupuesto/internal/household"
)

type errorResponse struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Blocking int    `json:"blocking,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Message writes a plain error body with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// Error maps a domain error to its status code. Anything unrecognised is
// logged and reported as a generic 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *household.ValidationError
		integrity  *household.IntegrityError
	)

	switch {
	case errors.As(err, &validation):
		JSON(w, http.StatusBadRequest, errorResponse{Error: validation.Error(), Field: validation.Field})
	case errors.Is(err, household.ErrValidation):
		Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, household.ErrNotFound):
		Message(w, http.StatusNotFound, err.Error())
	case errors.As(err, &integrity):
		JSON(w, http.StatusConflict, errorResponse{Error: integrity.Error(), Blocking: integrity.Blocking()})
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Message(w, http.StatusInternalServerError, "internal error")
	}
}

// Decode reads a JSON body into v, reporting malformed input as a
// validation error.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return household.Invalid("body", "malformed JSON: %v", err)
	}

	return nil
}
