// Package lifecycle orchestrates the job flow: create job, process the mock
// payment (minting the approval code), and issue the receipt PDF. It is the
// only place approval codes are minted.
package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aslonhq/vendor-portal/internal/approval"
	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/aslonhq/vendor-portal/internal/identity"
	"github.com/aslonhq/vendor-portal/internal/ledger"
	"github.com/aslonhq/vendor-portal/internal/metrics"
	"github.com/aslonhq/vendor-portal/internal/receipt"
)

// PaidEventPublisher publishes job.paid events to the broker. Satisfied by
// shared/rabbitmq.Client.
type PaidEventPublisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Service ties the ledger, approval code generator, identity directory, and
// receipt composer together behind explicit-caller operations.
type Service struct {
	jobs      ledger.Store
	directory identity.Directory
	composer  *receipt.Composer
	publisher PaidEventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Config holds Service dependencies. Publisher and Metrics may be nil.
type Config struct {
	Jobs      ledger.Store
	Directory identity.Directory
	Composer  *receipt.Composer
	Publisher PaidEventPublisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// NewService creates the orchestrator.
func NewService(cfg *Config) *Service {
	return &Service{
		jobs:      cfg.Jobs,
		directory: cfg.Directory,
		composer:  cfg.Composer,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}
}

// CreateJob creates a pending job for the calling vendor. The amount is fixed
// by policy at domain.ServiceFeeCents; callers cannot choose it.
func (s *Service) CreateJob(ctx context.Context, caller domain.Caller, customerName, vehicleNo string) (*domain.Job, error) {
	if !caller.IsVendor() {
		return nil, domain.ErrForbidden
	}
	if customerName == "" || vehicleNo == "" {
		return nil, domain.ErrInvalidInput
	}

	job, err := s.jobs.Create(ctx, caller.ID, customerName, vehicleNo, domain.ServiceFeeCents)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.JobsCreated.Inc()
	}
	s.logger.Info("Job created",
		slog.String("job_id", job.JobID),
		slog.String("vendor_id", caller.ID),
	)

	return job, nil
}

// GetJob returns one job. Vendors see only their own jobs; admins see any.
func (s *Service) GetJob(ctx context.Context, caller domain.Caller, jobID string) (*domain.Job, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && job.VendorID != caller.ID {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

// ListJobs returns the caller's jobs newest-first; admins get every job.
func (s *Service) ListJobs(ctx context.Context, caller domain.Caller) ([]domain.Job, error) {
	if caller.IsAdmin() {
		return s.jobs.ListAll(ctx)
	}
	return s.jobs.ListByVendor(ctx, caller.ID)
}

// ProcessPayment runs the mock payment on a pending job: it mints an approval
// code, transitions the job to paid exactly once, and publishes a job.paid
// event. A second attempt fails with domain.ErrAlreadyPaid and changes
// nothing. On an approval-code collision the code is regenerated once; a
// second collision escalates as domain.ErrCodeExhausted.
func (s *Service) ProcessPayment(ctx context.Context, caller domain.Caller, jobID string) (*domain.Job, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		s.countRejectedPayment()
		return nil, err
	}
	if job.VendorID != caller.ID {
		s.countRejectedPayment()
		return nil, domain.ErrForbidden
	}

	paidAt := time.Now().UTC()
	paid, err := s.jobs.MarkPaid(ctx, jobID, approval.Generate(), paidAt)
	if errors.Is(err, domain.ErrCodeCollision) {
		s.logger.Warn("Approval code collision, regenerating",
			slog.String("job_id", jobID),
		)
		paid, err = s.jobs.MarkPaid(ctx, jobID, approval.Generate(), paidAt)
		if errors.Is(err, domain.ErrCodeCollision) {
			return nil, fmt.Errorf("%w: two consecutive collisions", domain.ErrCodeExhausted)
		}
	}
	if err != nil {
		s.countRejectedPayment()
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PaymentsProcessed.Inc()
	}
	s.logger.Info("Payment processed",
		slog.String("job_id", paid.JobID),
		slog.String("approval_code", *paid.ApprovalCode),
	)

	s.publishPaidEvent(ctx, paid)

	return paid, nil
}

// Receipt is the issued document plus its download filename.
type Receipt struct {
	Filename string
	PDF      []byte
}

// IssueReceipt composes the receipt PDF for a paid job. The caller must own
// the job or be an admin; unpaid jobs yield domain.ErrNotPaid.
func (s *Service) IssueReceipt(ctx context.Context, caller domain.Caller, jobID string) (*Receipt, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && job.VendorID != caller.ID {
		s.logger.Warn("Receipt requested by non-owner",
			slog.String("job_id", jobID),
			slog.String("caller_id", caller.ID),
		)
		return nil, domain.ErrForbidden
	}
	if job.ApprovalCode == nil || job.PaidAt == nil {
		return nil, domain.ErrNotPaid
	}

	vendor, err := s.directory.FindByID(ctx, job.VendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vendor: %w", err)
	}

	data := receipt.Data{
		VendorName:   vendor.Name,
		CustomerName: job.CustomerName,
		VehicleNo:    job.VehicleNo,
		AmountCents:  job.AmountCents,
		ApprovalCode: *job.ApprovalCode,
		Date:         *job.PaidAt,
	}

	start := time.Now()
	pdf, err := s.composer.Compose(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compose receipt: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ReceiptsIssued.Inc()
		s.metrics.ReceiptRenderSecs.Observe(time.Since(start).Seconds())
	}
	s.logger.Info("Receipt issued",
		slog.String("job_id", job.JobID),
		slog.String("approval_code", *job.ApprovalCode),
		slog.Int("pdf_bytes", len(pdf)),
	)

	return &Receipt{Filename: data.Filename(), PDF: pdf}, nil
}

// publishPaidEvent notifies the worker service. Publishing is best-effort:
// the ledger row is authoritative, so a broker failure is logged and the
// payment still succeeds.
func (s *Service) publishPaidEvent(ctx context.Context, job *domain.Job) {
	if s.publisher == nil {
		return
	}

	event := domain.JobPaidEvent{
		JobID:        job.JobID,
		VendorID:     job.VendorID,
		ApprovalCode: *job.ApprovalCode,
		AmountCents:  job.AmountCents,
		PaidAt:       *job.PaidAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal job.paid event",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.publisher.PublishWithRetry(ctx, body, "application/json"); err != nil {
		s.logger.Error("Failed to publish job.paid event",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.PaidEventsDropped.Inc()
		}
		return
	}

	if s.metrics != nil {
		s.metrics.PaidEventsPublished.Inc()
	}
}

func (s *Service) countRejectedPayment() {
	if s.metrics != nil {
		s.metrics.PaymentsRejected.Inc()
	}
}
