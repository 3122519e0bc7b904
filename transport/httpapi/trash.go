package httpapi

import (
	"net/http"

	"crewdispatch/domain/interfaces"
	"github.com/go-chi/chi/v5"
)

// Trash operations are admin-only.

// listTrash handles GET /api/trash/{entityType}.
func (h *Handler) listTrash(w http.ResponseWriter, r *http.Request) {
	if !actorFrom(r).IsAdmin() {
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required"})
		return
	}

	entityType := interfaces.TrashEntityType(chi.URLParam(r, "entityType"))

	listings, err := h.trash.ListTrash(r.Context(), entityType)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, listings)
}

// softDelete handles POST /api/trash/{entityType}/{id}.
func (h *Handler) softDelete(w http.ResponseWriter, r *http.Request) {
	if !actorFrom(r).IsAdmin() {
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required"})
		return
	}

	entityType := interfaces.TrashEntityType(chi.URLParam(r, "entityType"))
	id, ok := pathID(r, chi.URLParam, "id")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	if err := h.trash.SoftDelete(r.Context(), entityType, id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusNoContent, nil)
}

// restore handles POST /api/trash/{entityType}/{id}/restore.
func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	if !actorFrom(r).IsAdmin() {
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required"})
		return
	}

	entityType := interfaces.TrashEntityType(chi.URLParam(r, "entityType"))
	id, ok := pathID(r, chi.URLParam, "id")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	if err := h.trash.Restore(r.Context(), entityType, id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusNoContent, nil)
}

// permanentlyDelete handles DELETE /api/trash/{entityType}/{id}.
func (h *Handler) permanentlyDelete(w http.ResponseWriter, r *http.Request) {
	if !actorFrom(r).IsAdmin() {
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required"})
		return
	}

	entityType := interfaces.TrashEntityType(chi.URLParam(r, "entityType"))
	id, ok := pathID(r, chi.URLParam, "id")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	if err := h.trash.PermanentlyDelete(r.Context(), entityType, id); err != nil {
		h.writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPurged(string(entityType), 1)
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

// emptyTrash handles DELETE /api/trash/{entityType}.
func (h *Handler) emptyTrash(w http.ResponseWriter, r *http.Request) {
	if !actorFrom(r).IsAdmin() {
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required"})
		return
	}

	entityType := interfaces.TrashEntityType(chi.URLParam(r, "entityType"))

	count, err := h.trash.EmptyTrash(r.Context(), entityType)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPurged(string(entityType), count)
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"purged": count})
}
