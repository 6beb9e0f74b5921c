package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/packing-list/backend/internal/domain"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Message string `json:"message"`
}

// writeServiceError maps a service error to its HTTP status:
// ErrNotFound → 404, ErrValidation and ErrConflict → 400, ErrBusy → 503,
// anything else → 500.
// 500 bodies never carry the underlying error; it is logged instead.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		msg := "trip not found"
		if detail := unwrapMessage(err, domain.ErrNotFound); detail != "" {
			msg = detail + " not found"
		}
		writeJSON(w, http.StatusNotFound, errorResponse{Message: msg})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: messageOr(err, domain.ErrValidation)})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: messageOr(err, domain.ErrConflict)})
	case errors.Is(err, domain.ErrBusy):
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: messageOr(err, domain.ErrBusy)})
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

// unwrapMessage extracts the human-readable part that follows a sentinel in a
// wrapped error chain.
// e.g. "service.CategoryService.Add: repo.TripRepo.Mutate: conflict: category \"Hiking\" already exists"
// → "category \"Hiking\" already exists". Returns "" if nothing follows the sentinel.
func unwrapMessage(err error, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return ""
}

func messageOr(err error, sentinel error) string {
	if msg := unwrapMessage(err, sentinel); msg != "" {
		return msg
	}
	return sentinel.Error()
}
