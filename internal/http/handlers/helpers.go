package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/roster"
)

var errBadRequest = errors.New("bad request")

// maxBodyBytes bounds request bodies; the largest legitimate body is a reorder.
const maxBodyBytes = 64 << 10

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read body", errBadRequest)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: invalid JSON", errBadRequest)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeError maps domain errors to status codes. Unexpected errors are
// logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, roster.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, roster.ErrTooManyActive):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, roster.ErrInvalidRole),
		errors.Is(err, roster.ErrEmptyName),
		errors.Is(err, availability.ErrInvalidStatus),
		errors.Is(err, availability.ErrInvalidDate),
		errors.Is(err, availability.ErrInvalidHour):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
