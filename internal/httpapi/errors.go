package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/notedwin-dev/storyforge-ai/internal/engine"
	"github.com/notedwin-dev/storyforge-ai/internal/manager"
	"github.com/notedwin-dev/storyforge-ai/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// errorStatus maps well-known service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case manager.IsInvalidArgument(err):
		return http.StatusBadRequest
	case manager.IsNoModelLoaded(err):
		return http.StatusConflict
	case manager.IsTooBusy(err):
		return http.StatusTooManyRequests
	case errors.Is(err, engine.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		if he, ok := err.(HTTPError); ok {
			return he.StatusCode()
		}
		return http.StatusInternalServerError
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeGenerateError writes generation endpoint failures in the
// success/error envelope those endpoints always return.
func writeGenerateError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.GenerateResponse{Success: false, Error: msg})
}
