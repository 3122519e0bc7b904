package usecases

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"crewdispatch/test/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
)

// The use case tests run against in-memory repositories so the conditional
// update semantics can be exercised under real goroutine concurrency.

type fakeStore struct {
	mu       sync.Mutex
	jobs     map[int64]*entities.Job
	requests map[int64]*entities.JobRequest
	staff    map[int64]entities.Staff
	skills   map[int64][]entities.Skill
	services map[int64]entities.Service
	required map[int64][2][]entities.Skill

	bookings map[int64]*entities.Booking
	quotes   map[int64]*entities.Quote

	timeLogs     []entities.TimeLog
	materialLogs []entities.MaterialLog
	expenseLogs  []entities.ExpenseLog
	audits       []entities.AssignmentAudit

	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:     make(map[int64]*entities.Job),
		requests: make(map[int64]*entities.JobRequest),
		staff:    make(map[int64]entities.Staff),
		skills:   make(map[int64][]entities.Skill),
		services: make(map[int64]entities.Service),
		required: make(map[int64][2][]entities.Skill),
		bookings: make(map[int64]*entities.Booking),
		quotes:   make(map[int64]*entities.Quote),
		nextID:   1000,
	}
}

func (s *fakeStore) putJob(job *entities.Job) *entities.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	s.jobs[job.ID] = &copied
	return &copied
}

func (s *fakeStore) putRequest(r *entities.JobRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *r
	s.requests[r.ID] = &copied
}

func (s *fakeStore) jobByID(id int64) *entities.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		copied := *job
		return &copied
	}
	return nil
}

func (s *fakeStore) requestByID(id int64) *entities.JobRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.requests[id]; ok {
		copied := *r
		return &copied
	}
	return nil
}

// fakeJobRepository implements interfaces.JobRepository over the store.
type fakeJobRepository struct {
	store *fakeStore
}

func (f *fakeJobRepository) Create(_ context.Context, job *entities.Job) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if job.ID == 0 {
		f.store.nextID++
		job.ID = f.store.nextID
	}
	copied := *job
	f.store.jobs[job.ID] = &copied
	return nil
}

func (f *fakeJobRepository) FindByID(_ context.Context, id int64) (*entities.Job, error) {
	job := f.store.jobByID(id)
	if job == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("job with id %d not found", id))
	}
	return job, nil
}

func (f *fakeJobRepository) FindByExternalID(_ context.Context, externalID uuid.UUID) (*entities.Job, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, job := range f.store.jobs {
		if job.ExternalID == externalID {
			copied := *job
			return &copied, nil
		}
	}
	return nil, errors.NewNotFoundError("job not found")
}

func (f *fakeJobRepository) FindByFilter(_ context.Context, filter entities.JobFilter) ([]entities.Job, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []entities.Job
	for _, job := range f.store.jobs {
		if filter.Status != nil && job.Status != *filter.Status {
			continue
		}
		out = append(out, *job)
	}
	return out, nil
}

func (f *fakeJobRepository) FindPoolJobs(_ context.Context) ([]entities.Job, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []entities.Job
	for _, job := range f.store.jobs {
		if job.Status == entities.JobStatusPool && job.PoolEnabled && job.AssignedWorkerID == nil {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeJobRepository) FindPoolJobsByServices(_ context.Context, serviceIDs []int64) ([]entities.Job, error) {
	eligible := make(map[int64]struct{}, len(serviceIDs))
	for _, id := range serviceIDs {
		eligible[id] = struct{}{}
	}

	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []entities.Job
	for _, job := range f.store.jobs {
		if job.Status != entities.JobStatusPool || !job.PoolEnabled || job.AssignedWorkerID != nil {
			continue
		}
		if job.ServiceID == nil {
			out = append(out, *job)
			continue
		}
		if _, ok := eligible[*job.ServiceID]; ok {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeJobRepository) Claim(_ context.Context, jobID, workerID int64, at time.Time) (*entities.Job, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	job, ok := f.store.jobs[jobID]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("job with id %d not found", jobID))
	}
	if job.Status != entities.JobStatusPool || job.AssignedWorkerID != nil || !job.PoolEnabled {
		return nil, errors.NewConflictError("job already claimed")
	}

	job.Status = entities.JobStatusAssigned
	job.AssignedWorkerID = &workerID
	job.AssignedAt = &at
	job.UpdatedAt = at

	copied := *job
	return &copied, nil
}

func (f *fakeJobRepository) ReturnToPool(_ context.Context, jobID int64) (*entities.Job, bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	job, ok := f.store.jobs[jobID]
	if !ok {
		return nil, false, errors.NewNotFoundError(fmt.Sprintf("job with id %d not found", jobID))
	}

	if !job.Status.IsExecution() {
		copied := *job
		return &copied, false, nil
	}

	job.Status = entities.JobStatusPool
	job.AssignedWorkerID = nil
	job.AssignedAt = nil
	job.PoolEnabled = true

	copied := *job
	return &copied, true, nil
}

func (f *fakeJobRepository) CompareAndSetStatus(_ context.Context, jobID int64, from, to entities.JobStatus) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	job, ok := f.store.jobs[jobID]
	if !ok || job.Status != from {
		return false, nil
	}
	job.Status = to
	return true, nil
}

// fakeJobRequestRepository implements interfaces.JobRequestRepository.
type fakeJobRequestRepository struct {
	store *fakeStore
}

func (f *fakeJobRequestRepository) Create(_ context.Context, request *entities.JobRequest) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	for _, existing := range f.store.requests {
		if existing.JobID == request.JobID && existing.StaffID == request.StaffID &&
			existing.Status == entities.JobRequestStatusPending {
			return errors.NewConflictError("an active request for this job and staff member already exists")
		}
	}

	if request.ID == 0 {
		f.store.nextID++
		request.ID = f.store.nextID
	}
	copied := *request
	f.store.requests[request.ID] = &copied
	return nil
}

func (f *fakeJobRequestRepository) FindByID(_ context.Context, id int64) (*entities.JobRequest, error) {
	r := f.store.requestByID(id)
	if r == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("job request with id %d not found", id))
	}
	return r, nil
}

func (f *fakeJobRequestRepository) FindByStaff(_ context.Context, staffID int64) ([]entities.JobRequest, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []entities.JobRequest
	for _, r := range f.store.requests {
		if r.StaffID == staffID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeJobRequestRepository) FindPendingByJob(_ context.Context, jobID int64) ([]entities.JobRequest, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []entities.JobRequest
	for _, r := range f.store.requests {
		if r.JobID == jobID && r.Status == entities.JobRequestStatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeJobRequestRepository) MarkResponded(_ context.Context, id int64, status entities.JobRequestStatus, at time.Time) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	r, ok := f.store.requests[id]
	if !ok || r.Status != entities.JobRequestStatusPending {
		return false, nil
	}
	r.Status = status
	r.RespondedAt = &at
	return true, nil
}

func (f *fakeJobRequestRepository) ExpireSiblings(_ context.Context, jobID, exceptID int64, at time.Time) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	var count int64
	for _, r := range f.store.requests {
		if r.JobID == jobID && r.ID != exceptID && r.Status == entities.JobRequestStatusPending {
			r.Status = entities.JobRequestStatusExpired
			r.RespondedAt = &at
			count++
		}
	}
	return count, nil
}

func (f *fakeJobRequestRepository) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	var count int64
	for _, r := range f.store.requests {
		if r.Status == entities.JobRequestStatusPending && now.After(r.ExpiresAt) {
			r.Status = entities.JobRequestStatusExpired
			r.RespondedAt = &now
			count++
		}
	}
	return count, nil
}

// fakeStaffRepository implements interfaces.StaffRepository.
type fakeStaffRepository struct {
	store *fakeStore
}

func (f *fakeStaffRepository) FindByID(_ context.Context, id int64) (*entities.Staff, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if staff, ok := f.store.staff[id]; ok {
		return &staff, nil
	}
	return nil, errors.NewNotFoundError(fmt.Sprintf("staff member with id %d not found", id))
}

func (f *fakeStaffRepository) FindActive(_ context.Context) ([]entities.Staff, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []entities.Staff
	for _, staff := range f.store.staff {
		if staff.Active {
			out = append(out, staff)
		}
	}
	return out, nil
}

func (f *fakeStaffRepository) SkillsFor(_ context.Context, staffID int64) ([]entities.Skill, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.skills[staffID], nil
}

// fakeCatalogRepository implements interfaces.CatalogRepository.
type fakeCatalogRepository struct {
	store *fakeStore
}

func (f *fakeCatalogRepository) FindServiceByID(_ context.Context, id int64) (*entities.Service, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if svc, ok := f.store.services[id]; ok {
		return &svc, nil
	}
	return nil, errors.NewNotFoundError(fmt.Sprintf("service with id %d not found", id))
}

func (f *fakeCatalogRepository) FindServicesByCategories(_ context.Context, categories []string) ([]entities.Service, error) {
	wanted := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}

	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []entities.Service
	for _, svc := range f.store.services {
		if _, ok := wanted[svc.Category]; ok {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepository) RequiredSkillsFor(_ context.Context, serviceID int64) ([]entities.Skill, []entities.Skill, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	req := f.store.required[serviceID]
	return req[0], req[1], nil
}

// fakeWorkLogRepository implements interfaces.WorkLogRepository.
type fakeWorkLogRepository struct {
	store *fakeStore
}

func (f *fakeWorkLogRepository) CreateTimeLog(_ context.Context, log *entities.TimeLog) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.nextID++
	log.ID = f.store.nextID
	f.store.timeLogs = append(f.store.timeLogs, *log)
	return nil
}

func (f *fakeWorkLogRepository) CreateMaterialLog(_ context.Context, log *entities.MaterialLog) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.nextID++
	log.ID = f.store.nextID
	f.store.materialLogs = append(f.store.materialLogs, *log)
	return nil
}

func (f *fakeWorkLogRepository) CreateExpenseLog(_ context.Context, log *entities.ExpenseLog) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.nextID++
	log.ID = f.store.nextID
	f.store.expenseLogs = append(f.store.expenseLogs, *log)
	return nil
}

func (f *fakeWorkLogRepository) FindByJob(_ context.Context, jobID int64) ([]entities.TimeLog, []entities.MaterialLog, []entities.ExpenseLog, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	var timeLogs []entities.TimeLog
	for _, l := range f.store.timeLogs {
		if l.JobID == jobID {
			timeLogs = append(timeLogs, l)
		}
	}
	var materialLogs []entities.MaterialLog
	for _, l := range f.store.materialLogs {
		if l.JobID == jobID {
			materialLogs = append(materialLogs, l)
		}
	}
	var expenseLogs []entities.ExpenseLog
	for _, l := range f.store.expenseLogs {
		if l.JobID == jobID {
			expenseLogs = append(expenseLogs, l)
		}
	}
	return timeLogs, materialLogs, expenseLogs, nil
}

// fakeSourceRepository implements interfaces.SourceRepository.
type fakeSourceRepository struct {
	store *fakeStore
}

func (f *fakeSourceRepository) FindBookingByID(_ context.Context, id int64) (*entities.Booking, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if b, ok := f.store.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, errors.NewNotFoundError(fmt.Sprintf("booking with id %d not found", id))
}

func (f *fakeSourceRepository) FindQuoteByID(_ context.Context, id int64) (*entities.Quote, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if q, ok := f.store.quotes[id]; ok {
		copied := *q
		return &copied, nil
	}
	return nil, errors.NewNotFoundError(fmt.Sprintf("quote with id %d not found", id))
}

// fakeAuditRepository implements interfaces.AuditRepository.
type fakeAuditRepository struct {
	store *fakeStore
}

func (f *fakeAuditRepository) Create(_ context.Context, entry *entities.AssignmentAudit) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.nextID++
	entry.ID = f.store.nextID
	f.store.audits = append(f.store.audits, *entry)
	return nil
}

func (f *fakeAuditRepository) FindByJob(_ context.Context, jobID int64) ([]entities.AssignmentAudit, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []entities.AssignmentAudit
	for _, e := range f.store.audits {
		if e.JobID == jobID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAuditRepository) entries() []entities.AssignmentAudit {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]entities.AssignmentAudit, len(f.store.audits))
	copy(out, f.store.audits)
	return out
}

// fakeUnitOfWork hands out the shared fakes. The in-memory store applies
// each mutation immediately, which is exactly the visibility a committed
// conditional update has.
type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) Begin() error    { return nil }
func (u *fakeUnitOfWork) Commit() error   { return nil }
func (u *fakeUnitOfWork) Rollback() error { return nil }

func (u *fakeUnitOfWork) Jobs() interfaces.JobRepository {
	return &fakeJobRepository{store: u.store}
}

func (u *fakeUnitOfWork) JobRequests() interfaces.JobRequestRepository {
	return &fakeJobRequestRepository{store: u.store}
}

func (u *fakeUnitOfWork) Audits() interfaces.AuditRepository {
	return &fakeAuditRepository{store: u.store}
}

type fakeUnitOfWorkFactory struct {
	store *fakeStore
}

func (f *fakeUnitOfWorkFactory) New() interfaces.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

// testLogger returns a mock logger that tolerates any logging.
func testLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	return logger
}

// silentNotifier returns a mock notifier that reports itself unconfigured,
// so use cases skip publishing.
func silentNotifier(ctrl *gomock.Controller) *mocks.MockNotifier {
	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().IsConfigured().Return(false).AnyTimes()
	return notifier
}

// capturingNotifier is a configured mock notifier that records every
// published event.
type capturingNotifier struct {
	mock *mocks.MockNotifier

	mu  sync.Mutex
	evs []interfaces.TransitionEvent
}

func configuredNotifier(ctrl *gomock.Controller) *capturingNotifier {
	n := &capturingNotifier{mock: mocks.NewMockNotifier(ctrl)}
	n.mock.EXPECT().IsConfigured().Return(true).AnyTimes()
	n.mock.EXPECT().PublishTransition(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event interfaces.TransitionEvent) error {
			n.mu.Lock()
			defer n.mu.Unlock()
			n.evs = append(n.evs, event)
			return nil
		}).AnyTimes()
	return n
}

func (n *capturingNotifier) events() []interfaces.TransitionEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]interfaces.TransitionEvent, len(n.evs))
	copy(out, n.evs)
	return out
}

func newController(t *testing.T) *gomock.Controller {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return ctrl
}
