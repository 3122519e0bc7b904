// Package httpapi exposes the dispatch operations over HTTP. Identity is
// resolved upstream by the auth gateway and passed down via headers; this
// layer only translates requests into use case calls and domain errors into
// status codes.
package httpapi

import (
	"net/http"

	"crewdispatch/domain/interfaces"
	"crewdispatch/infrastructure/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler carries the use cases behind the HTTP surface.
type Handler struct {
	poolJobs        interfaces.PoolJobsUseCase
	claimJob        interfaces.ClaimJobUseCase
	assignJob       interfaces.AssignJobUseCase
	returnJob       interfaces.ReturnJobUseCase
	updateJobStatus interfaces.UpdateJobStatusUseCase
	createJob       interfaces.CreateJobUseCase
	jobRequests     interfaces.JobRequestUseCase
	workLogs        interfaces.WorkLogUseCase
	invoices        interfaces.InvoiceUseCase
	trash           interfaces.TrashUseCase

	jobRepository        interfaces.JobRepository
	jobRequestRepository interfaces.JobRequestRepository
	auditRepository      interfaces.AuditRepository

	metrics *metrics.Metrics
	logger  interfaces.Logger
}

// HandlerDeps bundles the collaborators a Handler needs.
type HandlerDeps struct {
	PoolJobs        interfaces.PoolJobsUseCase
	ClaimJob        interfaces.ClaimJobUseCase
	AssignJob       interfaces.AssignJobUseCase
	ReturnJob       interfaces.ReturnJobUseCase
	UpdateJobStatus interfaces.UpdateJobStatusUseCase
	CreateJob       interfaces.CreateJobUseCase
	JobRequests     interfaces.JobRequestUseCase
	WorkLogs        interfaces.WorkLogUseCase
	Invoices        interfaces.InvoiceUseCase
	Trash           interfaces.TrashUseCase

	JobRepository        interfaces.JobRepository
	JobRequestRepository interfaces.JobRequestRepository
	AuditRepository      interfaces.AuditRepository

	Metrics *metrics.Metrics
	Logger  interfaces.Logger
}

// NewHandler creates a new Handler.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		poolJobs:             deps.PoolJobs,
		claimJob:             deps.ClaimJob,
		assignJob:            deps.AssignJob,
		returnJob:            deps.ReturnJob,
		updateJobStatus:      deps.UpdateJobStatus,
		createJob:            deps.CreateJob,
		jobRequests:          deps.JobRequests,
		workLogs:             deps.WorkLogs,
		invoices:             deps.Invoices,
		trash:                deps.Trash,
		jobRepository:        deps.JobRepository,
		jobRequestRepository: deps.JobRequestRepository,
		auditRepository:      deps.AuditRepository,
		metrics:              deps.Metrics,
		logger:               deps.Logger,
	}
}

// Router builds the chi router for the API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.trackInFlight)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.listJobs)
			r.Post("/from-booking/{bookingID}", h.createJobFromBooking)
			r.Post("/from-quote/{quoteID}", h.createJobFromQuote)
			r.Get("/by-external/{externalID}", h.getJobByExternalID)

			r.Route("/{jobID}", func(r chi.Router) {
				r.Get("/", h.getJob)
				r.Get("/audit", h.getJobAudit)
				r.Get("/candidates", h.listCandidates)
				r.Get("/requests", h.listJobRequests)
				r.Post("/claim", h.claimJobHandler)
				r.Post("/assign", h.assignJobHandler)
				r.Post("/return", h.returnJobHandler)
				r.Post("/status", h.updateJobStatusHandler)
				r.Post("/invoice", h.prepareInvoice)

				r.Post("/logs/time", h.createTimeEntry)
				r.Post("/logs/materials", h.createMaterialEntry)
				r.Post("/logs/expenses", h.createExpenseEntry)
			})
		})

		r.Get("/pool/jobs", h.listPoolJobs)

		r.Route("/job-requests", func(r chi.Router) {
			r.Post("/", h.createJobRequest)
			r.Post("/{requestID}/respond", h.respondJobRequest)
		})
		r.Get("/staff/{staffID}/job-requests", h.listStaffRequests)

		r.Route("/trash", func(r chi.Router) {
			r.Get("/{entityType}", h.listTrash)
			r.Post("/{entityType}/{id}", h.softDelete)
			r.Post("/{entityType}/{id}/restore", h.restore)
			r.Delete("/{entityType}/{id}", h.permanentlyDelete)
			r.Delete("/{entityType}", h.emptyTrash)
		})
	})

	return r
}

// trackInFlight maintains the in-flight request gauge.
func (h *Handler) trackInFlight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.metrics != nil {
			h.metrics.HTTPRequestStarted()
			defer h.metrics.HTTPRequestFinished()
		}
		next.ServeHTTP(w, r)
	})
}
