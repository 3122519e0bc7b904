package httpapi

import (
	"net/http"
	"strconv"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/interfaces"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// listJobs handles GET /api/jobs with optional filters.
func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	var filter entities.JobFilter

	if s := r.URL.Query().Get("status"); s != "" {
		status := entities.JobStatus(s)
		filter.Status = &status
	}
	if s := r.URL.Query().Get("worker_id"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
			filter.AssignedWorkerID = &id
		}
	}
	if s := r.URL.Query().Get("service_id"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
			filter.ServiceID = &id
		}
	}
	if s := r.URL.Query().Get("source_type"); s != "" {
		sourceType := entities.SourceType(s)
		filter.SourceType = &sourceType
	}

	jobs, err := h.jobRepository.FindByFilter(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, jobs)
}

// getJob handles GET /api/jobs/{jobID}.
func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, chi.URLParam, "jobID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	job, err := h.jobRepository.FindByID(r.Context(), jobID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, job)
}

// getJobByExternalID handles GET /api/jobs/by-external/{externalID}. The
// booking/quote funnel only holds the job's public uuid.
func (h *Handler) getJobByExternalID(w http.ResponseWriter, r *http.Request) {
	externalID, err := uuid.Parse(chi.URLParam(r, "externalID"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid external id"})
		return
	}

	job, err := h.jobRepository.FindByExternalID(r.Context(), externalID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, job)
}

// getJobAudit handles GET /api/jobs/{jobID}/audit.
func (h *Handler) getJobAudit(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, chi.URLParam, "jobID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	if _, err := h.jobRepository.FindByID(r.Context(), jobID); err != nil {
		h.writeError(w, err)
		return
	}

	entries, err := h.auditRepository.FindByJob(r.Context(), jobID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, entries)
}

// createJobFromBooking handles POST /api/jobs/from-booking/{bookingID}.
func (h *Handler) createJobFromBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(r, chi.URLParam, "bookingID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid booking id"})
		return
	}

	job, err := h.createJob.CreateFromBooking(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, job)
}

// createJobFromQuote handles POST /api/jobs/from-quote/{quoteID}.
func (h *Handler) createJobFromQuote(w http.ResponseWriter, r *http.Request) {
	quoteID, ok := pathID(r, chi.URLParam, "quoteID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid quote id"})
		return
	}

	job, err := h.createJob.CreateFromQuote(r.Context(), quoteID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, job)
}

// listPoolJobs handles GET /api/pool/jobs for the calling worker.
func (h *Handler) listPoolJobs(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	result, err := h.poolJobs.Execute(r.Context(), interfaces.PoolJobsParams{
		WorkerID: actor.ID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SetPoolJobs(len(result.Jobs))
	}

	h.writeJSON(w, http.StatusOK, result)
}

// claimJobHandler handles POST /api/jobs/{jobID}/claim.
func (h *Handler) claimJobHandler(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, chi.URLParam, "jobID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}
	actor := actorFrom(r)

	job, err := h.claimJob.Execute(r.Context(), interfaces.ClaimJobParams{
		JobID:    jobID,
		WorkerID: actor.ID,
	})
	if err != nil {
		h.recordClaimOutcome(err)
		h.writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordClaim("pool")
	}
	h.writeJSON(w, http.StatusOK, job)
}

// assignJobHandler handles POST /api/jobs/{jobID}/assign.
func (h *Handler) assignJobHandler(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, chi.URLParam, "jobID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	var body struct {
		WorkerID int64 `json:"worker_id"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	result, err := h.assignJob.Execute(r.Context(), interfaces.AssignJobParams{
		JobID:    jobID,
		WorkerID: body.WorkerID,
		Actor:    actorFrom(r),
	})
	if err != nil {
		h.recordClaimOutcome(err)
		h.writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordClaim("assign")
	}
	h.writeJSON(w, http.StatusOK, result)
}

// returnJobHandler handles POST /api/jobs/{jobID}/return.
func (h *Handler) returnJobHandler(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, chi.URLParam, "jobID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	var body struct {
		Reason     string `json:"reason"`
		ReasonText string `json:"reason_text"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	job, err := h.returnJob.Execute(r.Context(), interfaces.ReturnJobParams{
		JobID:      jobID,
		Actor:      actorFrom(r),
		Reason:     entities.ReturnReason(body.Reason),
		ReasonText: body.ReasonText,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, job)
}

// updateJobStatusHandler handles POST /api/jobs/{jobID}/status.
func (h *Handler) updateJobStatusHandler(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, chi.URLParam, "jobID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	var body struct {
		Target string `json:"target"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	job, err := h.updateJobStatus.Execute(r.Context(), interfaces.UpdateJobStatusParams{
		JobID:  jobID,
		Actor:  actorFrom(r),
		Target: entities.JobStatus(body.Target),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, job)
}

// prepareInvoice handles POST /api/jobs/{jobID}/invoice.
func (h *Handler) prepareInvoice(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r, chi.URLParam, "jobID")
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	if !actorFrom(r).IsAdmin() {
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required"})
		return
	}

	draft, err := h.invoices.PrepareFromJob(r.Context(), jobID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, draft)
}

// recordClaimOutcome counts claims lost to a concurrent winner.
func (h *Handler) recordClaimOutcome(err error) {
	if h.metrics == nil {
		return
	}
	if isConflict(err) {
		h.metrics.RecordClaimConflict()
	}
}
