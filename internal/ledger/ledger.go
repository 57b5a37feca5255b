// Package ledger owns the job collection. Storage is an injected interface so
// the API can run against Postgres in production and an in-memory store in
// tests and mock mode.
package ledger

import (
	"context"
	"time"

	"github.com/aslonhq/vendor-portal/internal/domain"
)

// Store is the job ledger contract. Implementations must serialize the
// read-then-write inside MarkPaid so that two concurrent payment attempts on
// the same job cannot both succeed.
type Store interface {
	// Create allocates a new job in pending status. Returns
	// domain.ErrInvalidInput if the vendor id is empty or the amount is not
	// positive.
	Create(ctx context.Context, vendorID, customerName, vehicleNo string, amountCents int64) (*domain.Job, error)

	// FindByID returns domain.ErrJobNotFound for unknown ids.
	FindByID(ctx context.Context, jobID string) (*domain.Job, error)

	// ListByVendor returns the vendor's jobs newest-first.
	ListByVendor(ctx context.Context, vendorID string) ([]domain.Job, error)

	// ListAll returns every job newest-first (admin views).
	ListAll(ctx context.Context) ([]domain.Job, error)

	// MarkPaid transitions a pending job to paid, storing the approval code
	// and paid timestamp and touching nothing else. Returns
	// domain.ErrJobNotFound for unknown ids, domain.ErrAlreadyPaid if the
	// job is already paid or completed, and domain.ErrCodeCollision if the
	// approval code is held by another job.
	MarkPaid(ctx context.Context, jobID, approvalCode string, paidAt time.Time) (*domain.Job, error)

	// MarkCompleted transitions a paid job to completed.
	MarkCompleted(ctx context.Context, jobID string) (*domain.Job, error)

	// RevenueSummary aggregates amount and count over paid and completed jobs.
	RevenueSummary(ctx context.Context) (*domain.RevenueSummary, error)
}
