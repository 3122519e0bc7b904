package httpapi

import (
	"net/http"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/interfaces"
	"github.com/go-chi/chi/v5"
)

// createJobRequest handles POST /api/job-requests.
func (h *Handler) createJobRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		JobID     int64      `json:"job_id"`
		StaffID   int64      `json:"staff_id"`
		Message   string     `json:"message"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	params := interfaces.CreateJobRequestParams{
		JobID:   body.JobID,
		StaffID: body.StaffID,
		Actor:   actorFrom(r),
		Message: body.Message,
	}
	if body.ExpiresAt != nil {
		params.ExpiresAt = *body.ExpiresAt
	}

	request, err := h.jobRequests.Create(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, request)
}

// respondJobRequest handles POST /api/job-requests/{requestID}/respond.
func (h *Handler) respondJobRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, chi.URLParam, "requestID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request id"})
		return
	}

	var body struct {
		Accept bool `json:"accept"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	request, err := h.jobRequests.Respond(r.Context(), interfaces.RespondJobRequestParams{
		RequestID: requestID,
		StaffID:   actorFrom(r).ID,
		Accept:    body.Accept,
	})
	if err != nil {
		h.recordClaimOutcome(err)
		h.writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRequestResponse(string(request.Status))
		if request.Status == entities.JobRequestStatusAccepted {
			h.metrics.RecordClaim("request")
		}
	}

	h.writeJSON(w, http.StatusOK, request)
}

// listCandidates handles GET /api/jobs/{jobID}/candidates.
func (h *Handler) listCandidates(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, chi.URLParam, "jobID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	if !actorFrom(r).IsAdmin() {
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required"})
		return
	}

	candidates, err := h.jobRequests.Candidates(r.Context(), jobID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, candidates)
}

// listJobRequests handles GET /api/jobs/{jobID}/requests, the admin view of
// a job's open offers.
func (h *Handler) listJobRequests(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, chi.URLParam, "jobID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	if !actorFrom(r).IsAdmin() {
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required"})
		return
	}

	if _, err := h.jobRepository.FindByID(r.Context(), jobID); err != nil {
		h.writeError(w, err)
		return
	}

	requests, err := h.jobRequestRepository.FindPendingByJob(r.Context(), jobID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, requests)
}

// listStaffRequests handles GET /api/staff/{staffID}/job-requests. Workers
// may only read their own; admins may read anyone's.
func (h *Handler) listStaffRequests(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathID(r, chi.URLParam, "staffID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid staff id"})
		return
	}

	actor := actorFrom(r)
	if !actor.IsAdmin() && actor.ID != staffID {
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: "cannot read another worker's requests"})
		return
	}

	requests, err := h.jobRequestRepository.FindByStaff(r.Context(), staffID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, requests)
}
