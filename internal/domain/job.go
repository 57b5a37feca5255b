package domain

import "time"

// Job status lifecycle: pending -> paid -> completed.
const (
	JobStatusPending   = "pending"
	JobStatusPaid      = "paid"
	JobStatusCompleted = "completed"
)

// ServiceFeeCents is the fixed fee charged per job, in currency minor units.
const ServiceFeeCents int64 = 15000

// Job is a unit of billable work performed by one vendor for one customer.
// ApprovalCode and PaidAt are set together, exactly once, when the job is paid.
type Job struct {
	JobID        string     `db:"job_id" json:"job_id"`
	VendorID     string     `db:"vendor_id" json:"vendor_id"`
	CustomerName string     `db:"customer_name" json:"customer_name"`
	VehicleNo    string     `db:"vehicle_no" json:"vehicle_no"`
	AmountCents  int64      `db:"amount_cents" json:"amount_cents"`
	Status       string     `db:"status" json:"status"`
	ApprovalCode *string    `db:"approval_code" json:"approval_code,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	PaidAt       *time.Time `db:"paid_at" json:"paid_at,omitempty"`
}

// Paid reports whether the job has been through the payment action.
func (j *Job) Paid() bool {
	return j.Status == JobStatusPaid || j.Status == JobStatusCompleted
}

// JobPaidEvent is the message published to RabbitMQ when a payment succeeds.
type JobPaidEvent struct {
	JobID        string    `json:"job_id"`
	VendorID     string    `json:"vendor_id"`
	ApprovalCode string    `json:"approval_code"`
	AmountCents  int64     `json:"amount_cents"`
	PaidAt       time.Time `json:"paid_at"`
}
