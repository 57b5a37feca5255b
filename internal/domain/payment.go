package domain

import "time"

// PaymentRecord is the audit row written by the worker for each job.paid
// event. JobID is the natural key, a payment is recorded at most once per job.
type PaymentRecord struct {
	JobID        string    `db:"job_id" json:"job_id"`
	VendorID     string    `db:"vendor_id" json:"vendor_id"`
	ApprovalCode string    `db:"approval_code" json:"approval_code"`
	AmountCents  int64     `db:"amount_cents" json:"amount_cents"`
	PaidAt       time.Time `db:"paid_at" json:"paid_at"`
	RecordedAt   time.Time `db:"recorded_at" json:"recorded_at"`
}
