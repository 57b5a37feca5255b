// Package storage persists payment audit records consumed by the worker.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aslonhq/vendor-portal/internal/domain"
)

// Store records payment audit rows. RecordPayment reports whether a new row
// was inserted, a false return with nil error means the payment was already
// recorded and the message can be acknowledged.
type Store interface {
	RecordPayment(ctx context.Context, rec *domain.PaymentRecord) (bool, error)
}

// PostgresStore writes audit records to the payment_records table.
type PostgresStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sqlx.DB, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger,
	}
}

// RecordPayment inserts the audit row, skipping jobs that were already
// recorded. Redelivered events therefore leave the table unchanged.
func (s *PostgresStore) RecordPayment(ctx context.Context, rec *domain.PaymentRecord) (bool, error) {
	query := `
		INSERT INTO payment_records (job_id, vendor_id, approval_code, amount_cents, paid_at, recorded_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (job_id) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query,
		rec.JobID,
		rec.VendorID,
		rec.ApprovalCode,
		rec.AmountCents,
		rec.PaidAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		s.logger.Warn("Payment already recorded, skipping",
			slog.String("job_id", rec.JobID),
		)
		return false, nil
	}

	s.logger.Info("Payment recorded",
		slog.String("job_id", rec.JobID),
		slog.String("approval_code", rec.ApprovalCode),
	)

	return true, nil
}

// MemoryStore keeps audit records in process. Used in tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*domain.PaymentRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*domain.PaymentRecord),
	}
}

// RecordPayment stores the record unless the job was already recorded.
func (s *MemoryStore) RecordPayment(_ context.Context, rec *domain.PaymentRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.JobID]; ok {
		return false, nil
	}

	stored := *rec
	stored.RecordedAt = time.Now()
	s.records[rec.JobID] = &stored
	return true, nil
}

// Get returns the recorded payment for a job, or nil.
func (s *MemoryStore) Get(jobID string) *domain.PaymentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[jobID]
	if !ok {
		return nil
	}
	copied := *rec
	return &copied
}

// Len returns the number of recorded payments.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
