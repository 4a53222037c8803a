package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"notehub/internal/notes"
	"notehub/internal/store"
)

// apiError is an error carrying its HTTP classification. Errors without
// one default to an internal failure when written.
type apiError struct {
	Status  int      `json:"-"`
	Message string   `json:"message"`
	Data    []string `json:"data,omitempty"`
}

func (e *apiError) Error() string {
	return e.Message
}

func validationFailed(problems []string) *apiError {
	return &apiError{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed, invalid data was entered!",
		Data:    problems,
	}
}

func notFound(what string) *apiError {
	return &apiError{Status: http.StatusNotFound, Message: fmt.Sprintf("Could not find %s.", what)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

// writeError maps an error to a single JSON error response. Filter
// compilation errors are validation failures; anything untagged is a
// store failure surfaced with its content intact.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.Status, apiErr)
		return
	}
	var filterErr *notes.FilterError
	if errors.As(err, &filterErr) {
		writeError(w, validationFailed([]string{filterErr.Error()}))
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, notFound("resource"))
		return
	}
	slog.Error("request failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, &apiError{Message: err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return validationFailed([]string{"request body is not valid JSON"})
	}
	return nil
}
