package httpapi

import (
	"net/http"
	"time"

	"crewdispatch/domain/interfaces"
	"github.com/go-chi/chi/v5"
)

// createTimeEntry handles POST /api/jobs/{jobID}/logs/time.
func (h *Handler) createTimeEntry(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, chi.URLParam, "jobID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	var body struct {
		StartedAt   *time.Time `json:"started_at"`
		EndedAt     *time.Time `json:"ended_at"`
		ManualHours *float64   `json:"manual_hours"`
		Note        string     `json:"note"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	log, err := h.workLogs.CreateTimeEntry(r.Context(), interfaces.CreateTimeEntryParams{
		JobID:       jobID,
		WorkerID:    actorFrom(r).ID,
		StartedAt:   body.StartedAt,
		EndedAt:     body.EndedAt,
		ManualHours: body.ManualHours,
		Note:        body.Note,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, log)
}

// createMaterialEntry handles POST /api/jobs/{jobID}/logs/materials.
func (h *Handler) createMaterialEntry(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, chi.URLParam, "jobID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	var body struct {
		Name           string  `json:"name"`
		Quantity       float64 `json:"quantity"`
		UnitPriceCents int64   `json:"unit_price_cents"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	log, err := h.workLogs.CreateMaterialEntry(r.Context(), interfaces.CreateMaterialEntryParams{
		JobID:          jobID,
		WorkerID:       actorFrom(r).ID,
		Name:           body.Name,
		Quantity:       body.Quantity,
		UnitPriceCents: body.UnitPriceCents,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, log)
}

// createExpenseEntry handles POST /api/jobs/{jobID}/logs/expenses.
func (h *Handler) createExpenseEntry(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, chi.URLParam, "jobID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	var body struct {
		Description string `json:"description"`
		AmountCents int64  `json:"amount_cents"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	log, err := h.workLogs.CreateExpenseEntry(r.Context(), interfaces.CreateExpenseEntryParams{
		JobID:       jobID,
		WorkerID:    actorFrom(r).ID,
		Description: body.Description,
		AmountCents: body.AmountCents,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, log)
}
