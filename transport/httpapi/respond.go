package httpapi

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// writeJSON writes a JSON response with the given status.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			h.logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps a domain error onto an HTTP status. Internal failures are
// logged with their cause and reported without it.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validationErr *errors.ValidationError
	if stderrors.As(err, &validationErr) {
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "validation failed",
			Fields: validationErr.Fields,
		})
		return
	}

	switch {
	case stderrors.Is(err, errors.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case stderrors.Is(err, errors.ErrConflict):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case stderrors.Is(err, errors.ErrForbidden):
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case stderrors.Is(err, errors.ErrInvalidInput):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("Request failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// isConflict reports whether err is the concurrency conflict sentinel.
func isConflict(err error) bool {
	return stderrors.Is(err, errors.ErrConflict)
}

// decodeBody decodes a JSON request body into dst.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, param func(*http.Request, string) string, name string) (int64, bool) {
	id, err := strconv.ParseInt(param(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// actorFrom resolves the caller from the identity headers set by the auth
// gateway. Requests without them are treated as anonymous and rejected by
// the operations that require an actor.
func actorFrom(r *http.Request) interfaces.Actor {
	id, _ := strconv.ParseInt(r.Header.Get("X-Actor-ID"), 10, 64)

	role := interfaces.RoleWorker
	if r.Header.Get("X-Actor-Role") == string(interfaces.RoleAdmin) {
		role = interfaces.RoleAdmin
	}

	return interfaces.Actor{ID: id, Role: role}
}
