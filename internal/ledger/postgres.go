package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/aslonhq/vendor-portal/shared/postgresql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresStore is the production Store over PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a PostgresStore from the shared client.
func NewPostgresStore(pg *postgresql.Client) *PostgresStore {
	return &PostgresStore{db: pg.GetDB()}
}

func (s *PostgresStore) Create(ctx context.Context, vendorID, customerName, vehicleNo string, amountCents int64) (*domain.Job, error) {
	if vendorID == "" || amountCents <= 0 {
		return nil, domain.ErrInvalidInput
	}

	job := &domain.Job{
		JobID:        uuid.New().String(),
		VendorID:     vendorID,
		CustomerName: customerName,
		VehicleNo:    vehicleNo,
		AmountCents:  amountCents,
		Status:       domain.JobStatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	query := `
		INSERT INTO jobs (
			job_id, vendor_id, customer_name, vehicle_no,
			amount_cents, status, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.JobID,
		job.VendorID,
		job.CustomerName,
		job.VehicleNo,
		job.AmountCents,
		job.Status,
		job.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	return job, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, jobID string) (*domain.Job, error) {
	var job domain.Job
	query := `
		SELECT
			job_id, vendor_id, customer_name, vehicle_no,
			amount_cents, status, approval_code, created_at, paid_at
		FROM jobs
		WHERE job_id = $1
	`

	err := s.db.GetContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

func (s *PostgresStore) ListByVendor(ctx context.Context, vendorID string) ([]domain.Job, error) {
	query := `
		SELECT
			job_id, vendor_id, customer_name, vehicle_no,
			amount_cents, status, approval_code, created_at, paid_at
		FROM jobs
		WHERE vendor_id = $1
		ORDER BY created_at DESC, job_id DESC
	`

	var jobs []domain.Job
	if err := s.db.SelectContext(ctx, &jobs, query, vendorID); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]domain.Job, error) {
	query := `
		SELECT
			job_id, vendor_id, customer_name, vehicle_no,
			amount_cents, status, approval_code, created_at, paid_at
		FROM jobs
		ORDER BY created_at DESC, job_id DESC
	`

	var jobs []domain.Job
	if err := s.db.SelectContext(ctx, &jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

// MarkPaid uses a single conditional UPDATE so only one of any number of
// concurrent payment attempts can move the row out of pending.
func (s *PostgresStore) MarkPaid(ctx context.Context, jobID, approvalCode string, paidAt time.Time) (*domain.Job, error) {
	query := `
		UPDATE jobs
		SET status = $1,
		    approval_code = $2,
		    paid_at = $3
		WHERE job_id = $4
		  AND status = $5
		RETURNING
			job_id, vendor_id, customer_name, vehicle_no,
			amount_cents, status, approval_code, created_at, paid_at
	`

	var job domain.Job
	err := s.db.GetContext(ctx, &job, query,
		domain.JobStatusPaid, approvalCode, paidAt, jobID, domain.JobStatusPending)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, domain.ErrCodeCollision
		}
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish a missing job from a lost payment race.
			if _, findErr := s.FindByID(ctx, jobID); findErr != nil {
				return nil, findErr
			}
			return nil, domain.ErrAlreadyPaid
		}
		return nil, fmt.Errorf("failed to mark job paid: %w", err)
	}

	return &job, nil
}

func (s *PostgresStore) MarkCompleted(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `
		UPDATE jobs
		SET status = $1
		WHERE job_id = $2
		  AND status = $3
		RETURNING
			job_id, vendor_id, customer_name, vehicle_no,
			amount_cents, status, approval_code, created_at, paid_at
	`

	var job domain.Job
	err := s.db.GetContext(ctx, &job, query,
		domain.JobStatusCompleted, jobID, domain.JobStatusPaid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, findErr := s.FindByID(ctx, jobID); findErr != nil {
				return nil, findErr
			}
			return nil, domain.ErrNotPaid
		}
		return nil, fmt.Errorf("failed to mark job completed: %w", err)
	}

	return &job, nil
}

func (s *PostgresStore) RevenueSummary(ctx context.Context) (*domain.RevenueSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount_cents), 0) AS total_cents,
			COUNT(*) AS paid_jobs
		FROM jobs
		WHERE status <> $1
	`

	var summary domain.RevenueSummary
	if err := s.db.GetContext(ctx, &summary, query, domain.JobStatusPending); err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	return &summary, nil
}
