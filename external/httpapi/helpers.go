package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/foxseedlab/monogatarun/internal/session"
)

const requestBodyLimit = 1 << 20

// readJSON decodes a JSON request body with a size limit.
func readJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, requestBodyLimit)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return v, false
	}
	return v, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// isSessionError reports whether err belongs to the session package's
// error taxonomy, as opposed to an upstream provider failure.
func isSessionError(err error) bool {
	for _, known := range []error{
		session.ErrSessionNotFound,
		session.ErrChapterNotFound,
		session.ErrNoActiveSession,
		session.ErrSessionNotEnded,
		session.ErrInvalidGenre,
		session.ErrInvalidTriggerType,
		session.ErrInvalidSpeed,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

// writeSessionError maps the session package's error taxonomy onto HTTP
// statuses. Unknown errors are logged and returned as 500s.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, session.ErrChapterNotFound):
		writeError(w, http.StatusNotFound, "chapter not found")
	case errors.Is(err, session.ErrNoActiveSession):
		writeError(w, http.StatusNotFound, "no current session")
	case errors.Is(err, session.ErrSessionNotEnded):
		writeError(w, http.StatusConflict, "session has not ended")
	case errors.Is(err, session.ErrInvalidGenre):
		writeError(w, http.StatusBadRequest, "unsupported genre")
	case errors.Is(err, session.ErrInvalidTriggerType):
		writeError(w, http.StatusBadRequest, "trigger type must be time or distance")
	case errors.Is(err, session.ErrInvalidSpeed):
		writeError(w, http.StatusBadRequest, "speed must not be negative")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
