package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs tests and mock
// mode; nothing survives a process restart.
type MemoryStore struct {
	mu    sync.RWMutex
	jobs  map[string]*domain.Job
	codes map[string]string // approval code -> job id
	order []string          // job ids in insertion order
}

// NewMemoryStore creates an empty in-memory job ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:  make(map[string]*domain.Job),
		codes: make(map[string]string),
	}
}

func (s *MemoryStore) Create(_ context.Context, vendorID, customerName, vehicleNo string, amountCents int64) (*domain.Job, error) {
	if vendorID == "" || amountCents <= 0 {
		return nil, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job := &domain.Job{
		JobID:        uuid.New().String(),
		VendorID:     vendorID,
		CustomerName: customerName,
		VehicleNo:    vehicleNo,
		AmountCents:  amountCents,
		Status:       domain.JobStatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	s.jobs[job.JobID] = job
	s.order = append(s.order, job.JobID)

	cp := *job
	return &cp, nil
}

func (s *MemoryStore) FindByID(_ context.Context, jobID string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

func (s *MemoryStore) ListByVendor(_ context.Context, vendorID string) ([]domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var jobs []domain.Job
	for _, id := range s.order {
		if job := s.jobs[id]; job.VendorID == vendorID {
			jobs = append(jobs, *job)
		}
	}
	sortNewestFirst(jobs)
	return jobs, nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]domain.Job, 0, len(s.order))
	for _, id := range s.order {
		jobs = append(jobs, *s.jobs[id])
	}
	sortNewestFirst(jobs)
	return jobs, nil
}

// MarkPaid holds the write lock across the status check and mutation, which
// is what makes concurrent double payment impossible in this implementation.
func (s *MemoryStore) MarkPaid(_ context.Context, jobID, approvalCode string, paidAt time.Time) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if job.Status != domain.JobStatusPending {
		return nil, domain.ErrAlreadyPaid
	}
	if holder, taken := s.codes[approvalCode]; taken && holder != jobID {
		return nil, domain.ErrCodeCollision
	}

	code := approvalCode
	at := paidAt
	job.Status = domain.JobStatusPaid
	job.ApprovalCode = &code
	job.PaidAt = &at
	s.codes[approvalCode] = jobID

	cp := *job
	return &cp, nil
}

func (s *MemoryStore) MarkCompleted(_ context.Context, jobID string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if job.Status != domain.JobStatusPaid {
		return nil, domain.ErrNotPaid
	}
	job.Status = domain.JobStatusCompleted

	cp := *job
	return &cp, nil
}

func (s *MemoryStore) RevenueSummary(_ context.Context) (*domain.RevenueSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var summary domain.RevenueSummary
	for _, job := range s.jobs {
		if job.Status != domain.JobStatusPending {
			summary.TotalCents += job.AmountCents
			summary.PaidJobs++
		}
	}
	return &summary, nil
}

// sortNewestFirst matches the Postgres ordering: created_at DESC, job_id DESC.
func sortNewestFirst(jobs []domain.Job) {
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].JobID > jobs[j].JobID
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
}
